package chat

// Command — изменение журнала, которое возвращает машина состояний.
//
// Sealed interface: реализовать его могут только типы этого пакета.
type Command interface {
	command()
}

// Append добавляет сообщение в конец журнала.
type Append struct {
	Message Message
}

func (Append) command() {}

// RemoveKind удаляет из журнала все записи указанного типа.
//
// Допустимо только для KindTypingIndicator и KindOptionPrompt.
type RemoveKind struct {
	Kind Kind
}

func (RemoveKind) command() {}

// Say — сокращение для Append(Assistant(text)).
func Say(text string) Command {
	return Append{Message: Assistant(text)}
}

// Echo — сокращение для Append(User(text)).
func Echo(text string) Command {
	return Append{Message: User(text)}
}

// Ask — сокращение для Append(Options(opts...)).
func Ask(opts ...Option) Command {
	return Append{Message: Options(opts...)}
}

// StartTyping добавляет индикатор набора.
func StartTyping() Command {
	return Append{Message: Typing()}
}

// StopTyping убирает индикатор набора.
func StopTyping() Command {
	return RemoveKind{Kind: KindTypingIndicator}
}

// DropOptions убирает кнопки с вариантами ответа.
func DropOptions() Command {
	return RemoveKind{Kind: KindOptionPrompt}
}
