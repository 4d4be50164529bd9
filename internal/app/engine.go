package app

import (
	"context"
	"fmt"
	"log"

	"github.com/rickcomics/myprotectivemasks/internal/domain"
	"github.com/rickcomics/myprotectivemasks/internal/quiz"
)

// SessionStore abstracts how per-user test sessions are stored (in-memory,
// Redis, etc). Create overwrites any prior session for the user. Callers must
// serialize calls for the same user.
type SessionStore interface {
	Get(ctx context.Context, userID int64) (*domain.Session, bool, error)
	Create(ctx context.Context, userID int64) (*domain.Session, error)
	Save(ctx context.Context, session *domain.Session) error
	Delete(ctx context.Context, userID int64) error
}

// BankRepository loads the question bank (from cache/backing store).
type BankRepository interface {
	GetBank(ctx context.Context) (domain.Bank, error)
}

// Engine runs the test state machine. Each inbound action is matched against
// a single priority-ordered dispatch table; the first matching route handles
// it, so no handler ever re-enters another.
type Engine struct {
	sessions  SessionStore
	banks     BankRepository
	presenter *Presenter
	routes    []route
}

type route struct {
	match  func(text string) bool
	handle func(ctx context.Context, userID int64, text string) ([]domain.Reply, error)
}

func NewEngine(sessions SessionStore, banks BankRepository) *Engine {
	e := &Engine{
		sessions:  sessions,
		banks:     banks,
		presenter: NewPresenter(),
	}
	e.routes = []route{
		{match: exact(AgreeButton, DisagreeButton), handle: e.handleFeedback},
		{match: exact(StartCommand), handle: e.handleStart},
		{match: exact(BeginButton), handle: e.handleBegin},
		{match: func(string) bool { return true }, handle: e.handleMessage},
	}
	return e
}

func exact(tokens ...string) func(string) bool {
	return func(text string) bool {
		for _, token := range tokens {
			if text == token {
				return true
			}
		}
		return false
	}
}

// HandleAction processes one inbound user action and returns the replies to
// deliver. Session state is committed before this returns, so delivery is
// fire-and-forget for the caller.
func (e *Engine) HandleAction(ctx context.Context, userID int64, text string) ([]domain.Reply, error) {
	for _, r := range e.routes {
		if r.match(text) {
			return r.handle(ctx, userID, text)
		}
	}
	// The last route matches everything; this is unreachable.
	return nil, nil
}

func (e *Engine) handleStart(_ context.Context, _ int64, _ string) ([]domain.Reply, error) {
	return []domain.Reply{e.presenter.Greeting()}, nil
}

// handleBegin creates a fresh session (discarding any previous one) and asks
// the first question.
func (e *Engine) handleBegin(ctx context.Context, userID int64, _ string) ([]domain.Reply, error) {
	bank, err := e.banks.GetBank(ctx)
	if err != nil {
		return nil, fmt.Errorf("load bank: %w", err)
	}
	session, err := e.sessions.Create(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	reply, err := e.askQuestion(bank, session)
	if err != nil {
		return nil, err
	}
	return []domain.Reply{reply}, nil
}

// handleFeedback closes a scored session. Without one the event is logged and
// ignored, matching the original bot.
func (e *Engine) handleFeedback(ctx context.Context, userID int64, text string) ([]domain.Reply, error) {
	session, ok, err := e.sessions.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if !ok || !session.Scored() {
		log.Printf("[WARN] feedback without scored session from user %d", userID)
		return nil, nil
	}

	if err := e.sessions.Delete(ctx, userID); err != nil {
		return nil, fmt.Errorf("delete session: %w", err)
	}
	log.Printf("[LOG] user %d completed the test, session cleared", userID)

	if text == AgreeButton {
		return []domain.Reply{e.presenter.AckAgree()}, nil
	}
	return []domain.Reply{e.presenter.AckDisagree()}, nil
}

// handleMessage covers everything else: answers during a running test and
// the fallback prompt outside one.
func (e *Engine) handleMessage(ctx context.Context, userID int64, text string) ([]domain.Reply, error) {
	session, ok, err := e.sessions.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if !ok || session.Completed() {
		return []domain.Reply{e.presenter.Fallback()}, nil
	}

	bank, err := e.banks.GetBank(ctx)
	if err != nil {
		return nil, fmt.Errorf("load bank: %w", err)
	}

	answer, valid := domain.ParseAnswer(text)
	if !valid {
		// No state change; re-emit the pending question.
		reply, err := e.askQuestion(bank, session)
		if err != nil {
			return nil, err
		}
		return []domain.Reply{e.presenter.InvalidAnswer(), reply}, nil
	}

	role, _, found := bank.QuestionAt(session.CurrentQuestion)
	if !found {
		return nil, domain.ErrQuestionOutOfRange
	}
	session.Answers = append(session.Answers, domain.AnsweredQuestion{
		Role:   role,
		Answer: answer,
		Weight: answer.Weight(),
	})
	session.CurrentQuestion++

	if session.Completed() {
		session.DetectedRoles = quiz.DetermineRoles(quiz.Score(session.Answers))
		if err := e.sessions.Save(ctx, session); err != nil {
			return nil, fmt.Errorf("save session: %w", err)
		}
		return e.presenter.Results(bank, session.DetectedRoles), nil
	}

	if err := e.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	reply, err := e.askQuestion(bank, session)
	if err != nil {
		return nil, err
	}
	return []domain.Reply{reply}, nil
}

func (e *Engine) askQuestion(bank domain.Bank, session *domain.Session) (domain.Reply, error) {
	_, text, found := bank.QuestionAt(session.CurrentQuestion)
	if !found {
		return domain.Reply{}, domain.ErrQuestionOutOfRange
	}
	return e.presenter.Question(text), nil
}
