package flow

import "fmt"

// Step — активный шаг диалога.
type Step int

const (
	// Шаги входа и регистрации.
	StepIdentityDocument Step = iota
	StepPasswordEntry
	StepRegisterEmail
	StepRegisterName
	StepRegisterPassword
	StepRegisterCategory

	// Шаги чата документа.
	StepAwaitingConfirmation
	StepAwaitingFile

	// Шаги добавления safra.
	StepProductName
	StepProductUnit
	StepProductQuantity
	StepHarvestYear

	// StepDone — терминальное действие выдано, дальнейший ввод игнорируется.
	StepDone
)

func (s Step) String() string {
	switch s {
	case StepIdentityDocument:
		return "identity_document"
	case StepPasswordEntry:
		return "password_entry"
	case StepRegisterEmail:
		return "register_email"
	case StepRegisterName:
		return "register_name"
	case StepRegisterPassword:
		return "register_password"
	case StepRegisterCategory:
		return "register_category"
	case StepAwaitingConfirmation:
		return "awaiting_confirmation"
	case StepAwaitingFile:
		return "awaiting_file"
	case StepProductName:
		return "product_name"
	case StepProductUnit:
		return "product_unit"
	case StepProductQuantity:
		return "product_quantity"
	case StepHarvestYear:
		return "harvest_year"
	case StepDone:
		return "done"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// Secret сообщает, что на шаге вводится пароль и ввод нужно маскировать.
func (s Step) Secret() bool {
	return s == StepPasswordEntry || s == StepRegisterPassword
}
