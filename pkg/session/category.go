package session

import "fmt"

// Category — категория продавца (subtipo).
//
// Определяет список обязательных документов и тексты инструкций.
type Category string

const (
	CategoryIndividualSupplier Category = "individual_supplier"
	CategoryInformalGroup      Category = "informal_group"
	CategoryFormalGroup        Category = "formal_group"
)

// Categories возвращает категории в порядке пунктов меню регистрации (1, 2, 3).
func Categories() []Category {
	return []Category{CategoryIndividualSupplier, CategoryInformalGroup, CategoryFormalGroup}
}

// Valid сообщает, что категория известна.
func (c Category) Valid() bool {
	switch c {
	case CategoryIndividualSupplier, CategoryInformalGroup, CategoryFormalGroup:
		return true
	}
	return false
}

// WireName возвращает значение, которое ожидает бэкенд (tipo_conta / subtipo_usuario).
func (c Category) WireName() string {
	switch c {
	case CategoryIndividualSupplier:
		return "fornecedor_individual"
	case CategoryInformalGroup:
		return "grupo_informal"
	case CategoryFormalGroup:
		return "grupo_formal"
	}
	return ""
}

// Label — подпись для пользователя.
func (c Category) Label() string {
	switch c {
	case CategoryIndividualSupplier:
		return "Fornecedor individual"
	case CategoryInformalGroup:
		return "Grupo informal"
	case CategoryFormalGroup:
		return "Grupo formal (cooperativa ou associação)"
	}
	return string(c)
}

// ParseCategory принимает как внутреннее имя, так и значение бэкенда.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories() {
		if s == string(c) || s == c.WireName() {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown producer category %q", s)
}
