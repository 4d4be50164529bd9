package app

import (
	"fmt"
	"strings"

	"github.com/rickcomics/myprotectivemasks/internal/domain"
)

// Button labels and commands the dispatch table matches against.
const (
	StartCommand   = "/start"
	BeginButton    = "Начать самоанализ"
	AgreeButton    = "Да, согласен"
	DisagreeButton = "Нет, не согласен"
)

func startKeyboard() [][]string {
	return [][]string{{BeginButton}}
}

func answerKeyboard() [][]string {
	return [][]string{
		{string(domain.AnswerYes)},
		{string(domain.AnswerNo)},
		{string(domain.AnswerSometimes)},
	}
}

func feedbackKeyboard() [][]string {
	return [][]string{{AgreeButton, DisagreeButton}}
}

// Presenter renders every user-facing text of the test. It is pure
// formatting: no stores, no transport.
type Presenter struct{}

func NewPresenter() *Presenter {
	return &Presenter{}
}

// Greeting is the /start reply.
func (p *Presenter) Greeting() domain.Reply {
	return domain.Reply{
		Text: "👋 Привет! Этот бот поможет вам отследить проявления защитных ролей из детства.\n\n" +
			"Нажмите кнопку ниже, чтобы начать.",
		Keyboard: startKeyboard(),
	}
}

// Question wraps a question text with the three answer buttons.
func (p *Presenter) Question(text string) domain.Reply {
	return domain.Reply{Text: text, Keyboard: answerKeyboard()}
}

// InvalidAnswer admonishes the user to use the buttons.
func (p *Presenter) InvalidAnswer() domain.Reply {
	return domain.Reply{
		Text:     "Пожалуйста, выберите ответ из предложенных кнопок.",
		Keyboard: answerKeyboard(),
	}
}

// Fallback is sent for any input outside a running test.
func (p *Presenter) Fallback() domain.Reply {
	return domain.Reply{
		Text: "Я пока умею только проводить тест на выявление ролей.\n" +
			"Чтобы начать, нажмите /start.",
		Keyboard: startKeyboard(),
	}
}

// TechnicalError is the generic recovery message for delivery failures.
func (p *Presenter) TechnicalError() domain.Reply {
	return domain.Reply{Text: "Произошла техническая ошибка. Попробуйте начать заново: /start."}
}

// Results renders a detection result. The neutral sentinel collapses to a
// single message; otherwise the role list and per-role alternatives are
// followed by the feedback prompt.
func (p *Presenter) Results(bank domain.Bank, roles []domain.Role) []domain.Reply {
	if len(roles) > 0 && roles[0] == domain.RoleNeutral {
		return []domain.Reply{{
			Text: "🔍 Признаки ролей не выражены ярко. Возможно, вы уже выработали гибкие стратегии поведения.\n\n" +
				"Хотите попробовать ещё раз? Нажмите /start.",
			Keyboard: feedbackKeyboard(),
		}}
	}

	var b strings.Builder
	b.WriteString("🎭 Вы проявили признаки следующих ролей:\n")
	for _, role := range roles {
		b.WriteString(fmt.Sprintf("• %s\n", p.roleName(bank, role)))
	}

	b.WriteString("\n💡 Попробуйте альтернативные действия:\n")
	for _, role := range roles {
		b.WriteString(fmt.Sprintf("\n*Для роли \"%s\":*\n", p.roleName(bank, role)))
		if profile, ok := bank.Profile(role); ok {
			lines := make([]string, 0, len(profile.Alternatives))
			for i, alt := range profile.Alternatives {
				lines = append(lines, fmt.Sprintf("  %d. %s", i+1, alt))
			}
			b.WriteString(strings.Join(lines, "\n"))
		}
	}

	b.WriteString("\n\n📌 Помните: это не диагноз, а возможность выбрать новый сценарий.")

	return []domain.Reply{
		{Text: b.String(), Markdown: true},
		{Text: "Согласны ли вы с результатами?", Keyboard: feedbackKeyboard()},
	}
}

// AckAgree closes the test after a positive confirmation.
func (p *Presenter) AckAgree() domain.Reply {
	return domain.Reply{
		Text: "Спасибо за обратную связь! Это помогает сделать тест точнее.\n\n" +
			"Если захотите повторить анализ — просто нажмите  /start.",
		RemoveKeyboard: true,
	}
}

// AckDisagree closes the test after a negative confirmation.
func (p *Presenter) AckDisagree() domain.Reply {
	return domain.Reply{
		Text: "Понял. Спасибо за честность!\n\n" +
			"Возможно, ваши стратегии поведения сложнее, чем предполагает этот тест. " +
			"Вот несколько идей, как двигаться дальше:\n\n" +
			"1. Запишите 2–3 ситуации, где вы чувствовали дискомфорт — попробуйте найти общий паттерн.\n" +
			"2. Поговорите с близким человеком, которому доверяете: попросите его описать, как он видит ваше поведение в сложных моментах.\n" +
			"3. Вернитесь к результатам теста через неделю — возможно, взгляд изменится.\n\n" +
			"Чтобы начать заново, нажмите /start.",
		RemoveKeyboard: true,
	}
}

func (p *Presenter) roleName(bank domain.Bank, role domain.Role) string {
	if profile, ok := bank.Profile(role); ok {
		return profile.Name
	}
	return string(role)
}
