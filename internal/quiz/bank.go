package quiz

import "github.com/rickcomics/myprotectivemasks/internal/domain"

// DefaultBankID is the bank the server serves unless configured otherwise.
const DefaultBankID = "protective-roles-v1"

// DefaultBank returns the built-in question bank: four roles, three questions
// and three alternative actions each, in the fixed role order.
func DefaultBank() domain.Bank {
	return domain.Bank{
		ID: DefaultBankID,
		Profiles: []domain.RoleProfile{
			{
				Role: domain.RoleHero,
				Name: "Герой",
				Questions: []string{
					"Вы часто берёте на себя ответственность за чужие проблемы?",
					"Вам сложно сказать \"нет\", чтобы не подвести кого‑то?",
					"Вы оцениваете себя только через достижения?",
				},
				Alternatives: []string{
					"Попробуйте сказать \"нет\" без чувства вины.",
					"Запишите 3 своих желания, не связанных с обязанностями.",
					"Позвольте себе отдохнуть без оправданий.",
				},
			},
			{
				Role: domain.RoleScapegoat,
				Name: "Козёл отпущения",
				Questions: []string{
					"Вы провоцируете конфликты, даже если можно решить мирно?",
					"Вы обвиняете других в своих проблемах?",
					"Вы сознательно нарушаете правила, чтобы \"наказать\" окружающих?",
				},
				Alternatives: []string{
					"Перед реакцией сделайте 3 глубоких вдоха.",
					"Сформулируйте свою потребность словами (например: \"Я злюсь, потому что...\").",
					"Найдите безопасный способ выразить злость (спорт, творчество).",
				},
			},
			{
				Role: domain.RoleClown,
				Name: "Шут",
				Questions: []string{
					"Вы шутите в напряжённой ситуации, даже если это неуместно?",
					"Вы избегаете серьёзных разговоров, переводя всё в шутку?",
					"Вы используете юмор, чтобы скрыть боль?",
				},
				Alternatives: []string{
					"Скажите прямо: \"Мне сейчас некомфортно\".",
					"Напишите в заметках, что на самом деле вас тревожит.",
					"Попросите поддержки, не используя юмор.",
				},
			},
			{
				Role: domain.RoleInvisible,
				Name: "Невидимка",
				Questions: []string{
					"Вы молчите, даже если у вас есть мнение?",
					"Вы избегаете внимания, потому что оно вызывает тревогу?",
					"Вы откладываете важные решения из‑за страха ошибиться?",
				},
				Alternatives: []string{
					"Выскажите мнение в чате (хотя бы одно предложение).",
					"Запишите 3 свои потребности за день.",
					"Сделайте маленький шаг к цели (даже 5 минут).",
				},
			},
		},
	}
}
