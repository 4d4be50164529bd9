package app_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rickcomics/myprotectivemasks/internal/app"
	"github.com/rickcomics/myprotectivemasks/internal/domain"
	"github.com/rickcomics/myprotectivemasks/internal/infra/memory"
	"github.com/rickcomics/myprotectivemasks/internal/quiz"
)

func newTestEngine() (*app.Engine, *memory.SessionStore) {
	store := memory.NewSessionStore()
	banks := memory.NewBankRepository(memory.NewStaticBankLoader(map[string]domain.Bank{
		quiz.DefaultBankID: quiz.DefaultBank(),
	}), quiz.DefaultBankID, 5*time.Minute)
	return app.NewEngine(store, banks), store
}

func TestStartCommandGreets(t *testing.T) {
	engine, store := newTestEngine()
	ctx := context.Background()

	replies, err := engine.HandleAction(ctx, 1, app.StartCommand)
	if err != nil {
		t.Fatalf("handle /start: %v", err)
	}
	if len(replies) != 1 || !strings.Contains(replies[0].Text, "Привет") {
		t.Fatalf("expected greeting, got %+v", replies)
	}
	// /start alone does not open a session.
	if _, ok, _ := store.Get(ctx, 1); ok {
		t.Fatalf("expected no session after /start")
	}
}

func TestBeginCreatesSessionAndAsksFirstQuestion(t *testing.T) {
	engine, store := newTestEngine()
	ctx := context.Background()

	replies, err := engine.HandleAction(ctx, 1, app.BeginButton)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if len(replies) != 1 || len(replies[0].Keyboard) != 3 {
		t.Fatalf("expected question with 3-row answer keyboard, got %+v", replies)
	}

	session, ok, _ := store.Get(ctx, 1)
	if !ok || session.CurrentQuestion != 0 || len(session.Answers) != 0 {
		t.Fatalf("expected fresh session, got ok=%v %+v", ok, session)
	}
}

func TestAnswersAdvanceAndKeepInvariant(t *testing.T) {
	engine, store := newTestEngine()
	ctx := context.Background()

	if _, err := engine.HandleAction(ctx, 1, app.BeginButton); err != nil {
		t.Fatalf("begin: %v", err)
	}

	for i := 0; i < domain.QuestionCount-1; i++ {
		if _, err := engine.HandleAction(ctx, 1, string(domain.AnswerSometimes)); err != nil {
			t.Fatalf("answer %d: %v", i, err)
		}
		session, _, _ := store.Get(ctx, 1)
		if session.CurrentQuestion != i+1 || len(session.Answers) != i+1 {
			t.Fatalf("invariant broken at %d: index=%d answers=%d", i, session.CurrentQuestion, len(session.Answers))
		}
	}
}

func TestInvalidTokenDoesNotAdvance(t *testing.T) {
	engine, store := newTestEngine()
	ctx := context.Background()

	if _, err := engine.HandleAction(ctx, 1, app.BeginButton); err != nil {
		t.Fatalf("begin: %v", err)
	}
	replies, err := engine.HandleAction(ctx, 1, "может быть")
	if err != nil {
		t.Fatalf("invalid answer: %v", err)
	}
	if len(replies) != 2 {
		t.Fatalf("expected admonition plus the re-emitted question, got %+v", replies)
	}
	if !strings.Contains(replies[0].Text, "из предложенных кнопок") {
		t.Fatalf("expected admonition, got %q", replies[0].Text)
	}
	if !strings.Contains(replies[1].Text, "ответственность") {
		t.Fatalf("expected the pending question again, got %q", replies[1].Text)
	}

	session, _, _ := store.Get(ctx, 1)
	if session.CurrentQuestion != 0 || len(session.Answers) != 0 {
		t.Fatalf("expected no state change, got %+v", session)
	}
}

func TestFullRunDetectsDominantRole(t *testing.T) {
	engine, store := newTestEngine()
	ctx := context.Background()

	if _, err := engine.HandleAction(ctx, 1, app.BeginButton); err != nil {
		t.Fatalf("begin: %v", err)
	}

	// Yes to all scapegoat questions (4..6), no to everything else.
	var last []domain.Reply
	for i := 0; i < domain.QuestionCount; i++ {
		answer := string(domain.AnswerNo)
		if i/domain.QuestionsPerRole == 1 {
			answer = string(domain.AnswerYes)
		}
		var err error
		last, err = engine.HandleAction(ctx, 1, answer)
		if err != nil {
			t.Fatalf("answer %d: %v", i, err)
		}
	}

	if len(last) != 2 {
		t.Fatalf("expected result text and feedback prompt, got %+v", last)
	}
	if !strings.Contains(last[0].Text, "• Козёл отпущения") {
		t.Fatalf("expected scapegoat bullet, got %q", last[0].Text)
	}
	if strings.Contains(last[0].Text, "• Герой") {
		t.Fatalf("did not expect hero in results: %q", last[0].Text)
	}
	if !strings.Contains(last[1].Text, "Согласны ли вы") {
		t.Fatalf("expected feedback prompt, got %q", last[1].Text)
	}

	session, _, _ := store.Get(ctx, 1)
	if !session.Scored() || session.DetectedRoles[0] != domain.RoleScapegoat {
		t.Fatalf("expected scored session, got %+v", session)
	}
}

func TestAllSometimesYieldsNeutralResult(t *testing.T) {
	engine, _ := newTestEngine()
	ctx := context.Background()

	if _, err := engine.HandleAction(ctx, 1, app.BeginButton); err != nil {
		t.Fatalf("begin: %v", err)
	}
	var last []domain.Reply
	for i := 0; i < domain.QuestionCount; i++ {
		var err error
		last, err = engine.HandleAction(ctx, 1, string(domain.AnswerSometimes))
		if err != nil {
			t.Fatalf("answer %d: %v", i, err)
		}
	}
	if len(last) != 1 || !strings.Contains(last[0].Text, "не выражены ярко") {
		t.Fatalf("expected single neutral message, got %+v", last)
	}
	if len(last[0].Keyboard) == 0 {
		t.Fatalf("expected feedback keyboard on neutral message")
	}
}

func TestFeedbackClosesSessionAndRestartIsFresh(t *testing.T) {
	engine, store := newTestEngine()
	ctx := context.Background()

	if _, err := engine.HandleAction(ctx, 1, app.BeginButton); err != nil {
		t.Fatalf("begin: %v", err)
	}
	for i := 0; i < domain.QuestionCount; i++ {
		if _, err := engine.HandleAction(ctx, 1, string(domain.AnswerYes)); err != nil {
			t.Fatalf("answer %d: %v", i, err)
		}
	}

	replies, err := engine.HandleAction(ctx, 1, app.DisagreeButton)
	if err != nil {
		t.Fatalf("feedback: %v", err)
	}
	if len(replies) != 1 || !strings.Contains(replies[0].Text, "Спасибо за честность") {
		t.Fatalf("expected disagree acknowledgement, got %+v", replies)
	}
	if !replies[0].RemoveKeyboard {
		t.Fatalf("expected keyboard removal")
	}
	if _, ok, _ := store.Get(ctx, 1); ok {
		t.Fatalf("expected session deleted after feedback")
	}

	// Restart produces a brand-new session.
	if _, err := engine.HandleAction(ctx, 1, app.BeginButton); err != nil {
		t.Fatalf("restart: %v", err)
	}
	session, ok, _ := store.Get(ctx, 1)
	if !ok || session.CurrentQuestion != 0 || len(session.Answers) != 0 || session.Scored() {
		t.Fatalf("expected fresh session after restart, got %+v", session)
	}
}

func TestFeedbackWithoutSessionIsIgnored(t *testing.T) {
	engine, _ := newTestEngine()
	ctx := context.Background()

	replies, err := engine.HandleAction(ctx, 1, app.AgreeButton)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(replies) != 0 {
		t.Fatalf("expected the event to be ignored, got %+v", replies)
	}
}

func TestFeedbackBeforeScoringIsIgnored(t *testing.T) {
	engine, store := newTestEngine()
	ctx := context.Background()

	if _, err := engine.HandleAction(ctx, 1, app.BeginButton); err != nil {
		t.Fatalf("begin: %v", err)
	}
	replies, err := engine.HandleAction(ctx, 1, app.AgreeButton)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(replies) != 0 {
		t.Fatalf("expected mid-test feedback ignored, got %+v", replies)
	}
	if _, ok, _ := store.Get(ctx, 1); !ok {
		t.Fatalf("expected session to survive stray feedback")
	}
}

func TestTextOutsideTestGetsFallback(t *testing.T) {
	engine, _ := newTestEngine()
	ctx := context.Background()

	replies, err := engine.HandleAction(ctx, 1, "привет")
	if err != nil {
		t.Fatalf("fallback: %v", err)
	}
	if len(replies) != 1 || !strings.Contains(replies[0].Text, "Я пока умею только проводить тест") {
		t.Fatalf("expected fallback prompt, got %+v", replies)
	}
	if len(replies[0].Keyboard) != 1 {
		t.Fatalf("expected start keyboard on fallback")
	}
}

func TestSessionsAreIndependentPerUser(t *testing.T) {
	engine, store := newTestEngine()
	ctx := context.Background()

	if _, err := engine.HandleAction(ctx, 1, app.BeginButton); err != nil {
		t.Fatalf("begin u1: %v", err)
	}
	if _, err := engine.HandleAction(ctx, 2, app.BeginButton); err != nil {
		t.Fatalf("begin u2: %v", err)
	}
	if _, err := engine.HandleAction(ctx, 1, string(domain.AnswerYes)); err != nil {
		t.Fatalf("answer u1: %v", err)
	}

	s1, _, _ := store.Get(ctx, 1)
	s2, _, _ := store.Get(ctx, 2)
	if s1.CurrentQuestion != 1 || s2.CurrentQuestion != 0 {
		t.Fatalf("expected independent progress, got u1=%d u2=%d", s1.CurrentQuestion, s2.CurrentQuestion)
	}
}
