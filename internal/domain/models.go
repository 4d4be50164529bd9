package domain

// Role is one of the four childhood protective roles the test screens for.
type Role string

const (
	RoleHero      Role = "hero"
	RoleScapegoat Role = "scapegoat"
	RoleClown     Role = "clown"
	RoleInvisible Role = "invisible"
	// RoleNeutral is the sentinel result when no role meets a threshold.
	RoleNeutral Role = "neutral"
)

// Roles is the fixed declaration order. It defines both the global question
// order (3 questions per role, role by role) and the order of detected roles
// in results.
var Roles = []Role{RoleHero, RoleScapegoat, RoleClown, RoleInvisible}

// Answer is one of the three reply-button tokens.
type Answer string

const (
	AnswerYes       Answer = "Да"
	AnswerNo        Answer = "Нет"
	AnswerSometimes Answer = "Иногда"
)

// Weight returns the score contribution of the answer.
func (a Answer) Weight() int {
	switch a {
	case AnswerYes:
		return 2
	case AnswerSometimes:
		return 1
	default:
		return 0
	}
}

// ParseAnswer matches text against the three recognized tokens. The match is
// exact: the transport sends button labels verbatim.
func ParseAnswer(text string) (Answer, bool) {
	switch Answer(text) {
	case AnswerYes, AnswerNo, AnswerSometimes:
		return Answer(text), true
	}
	return "", false
}

// AnsweredQuestion records one answered question in global question order.
type AnsweredQuestion struct {
	Role   Role   `json:"role"`
	Answer Answer `json:"answer"`
	Weight int    `json:"weight"`
}

// QuestionCount is the fixed length of the test.
const QuestionCount = 12

// QuestionsPerRole is how many questions each role contributes.
const QuestionsPerRole = 3

// Session tracks one user's progress through the test.
// Invariant: len(Answers) == CurrentQuestion at all times.
type Session struct {
	UserID          int64              `json:"userId"`
	CurrentQuestion int                `json:"currentQuestion"`
	Answers         []AnsweredQuestion `json:"answers"`
	// DetectedRoles is set once the session has been scored; the session is
	// then awaiting the feedback confirmation.
	DetectedRoles []Role `json:"detectedRoles,omitempty"`
}

// Completed reports whether all questions have been answered.
func (s *Session) Completed() bool {
	return s.CurrentQuestion >= QuestionCount
}

// Scored reports whether results have been computed for this session.
func (s *Session) Scored() bool {
	return len(s.DetectedRoles) > 0
}

// RoleProfile carries one role's display name, questions, and the
// alternative actions suggested when the role is detected.
type RoleProfile struct {
	Role         Role     `json:"role"`
	Name         string   `json:"name"`
	Questions    []string `json:"questions"`
	Alternatives []string `json:"alternatives"`
}

// Bank is the full question bank: one profile per role, in declaration order.
type Bank struct {
	ID       string        `json:"id"`
	Profiles []RoleProfile `json:"profiles"`
}

// Profile returns the profile for a role.
func (b Bank) Profile(role Role) (RoleProfile, bool) {
	for _, p := range b.Profiles {
		if p.Role == role {
			return p, true
		}
	}
	return RoleProfile{}, false
}

// QuestionAt resolves the global question index 0..11 to its role and text.
func (b Bank) QuestionAt(index int) (Role, string, bool) {
	roleIndex := index / QuestionsPerRole
	questionIndex := index % QuestionsPerRole
	if index < 0 || roleIndex >= len(b.Profiles) {
		return "", "", false
	}
	profile := b.Profiles[roleIndex]
	if questionIndex >= len(profile.Questions) {
		return "", "", false
	}
	return profile.Role, profile.Questions[questionIndex], true
}

// Reply is a transport-agnostic outbound message. The transport renders
// Keyboard rows as platform quick-reply buttons.
type Reply struct {
	Text           string
	Keyboard       [][]string
	RemoveKeyboard bool
	Markdown       bool
}
