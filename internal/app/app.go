// Package app wires the scheduling packages to persistence, the briefing
// service and logging. The CLI talks only to Service.
package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/examprep/internal/briefing"
	"github.com/abhisek/examprep/internal/calendar"
	"github.com/abhisek/examprep/internal/llm"
	"github.com/abhisek/examprep/internal/platform/logger"
	"github.com/abhisek/examprep/internal/practice"
	"github.com/abhisek/examprep/internal/store"
)

var (
	// ErrPlanNotActive is returned when a completed or abandoned plan is
	// asked to change.
	ErrPlanNotActive = errors.New("plan is not active")

	// ErrNoActivePlan means the user has no active plan to default to.
	ErrNoActivePlan = errors.New("no active plan")

	// ErrTaskNotFound means no task of the plan matches the given ID prefix.
	ErrTaskNotFound = errors.New("task not found")

	// ErrAmbiguousID means an ID prefix matches more than one row.
	ErrAmbiguousID = errors.New("ambiguous id prefix")
)

// Options configures a Service.
type Options struct {
	Store *store.Store

	// Provider enables LLM-written briefings. Nil uses templates only.
	Provider llm.Provider

	Logger *logger.Logger

	// Practice is the default session configuration.
	Practice practice.Config

	// Now is the clock. Defaults to time.Now.
	Now func() time.Time
}

// Service runs the use cases behind each CLI command.
type Service struct {
	plans    store.PlanRepo
	mastery  store.MasteryRepo
	cards    store.CardRepo
	events   store.EventRepo
	store    *store.Store
	briefing *briefing.Service
	practice practice.Config
	log      *logger.Logger
	now      func() time.Time
}

// New builds a Service.
func New(opts Options) (*Service, error) {
	if opts.Store == nil {
		return nil, errors.New("app: store is required")
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Practice.CardCount == 0 {
		opts.Practice = practice.DefaultConfig()
	}
	if err := opts.Practice.Validate(); err != nil {
		return nil, fmt.Errorf("practice config: %w", err)
	}

	st := opts.Store
	return &Service{
		plans:    st.PlanRepo(),
		mastery:  st.MasteryRepo(),
		cards:    st.CardRepo(),
		events:   st.EventRepo(),
		store:    st,
		briefing: briefing.NewService(opts.Provider, opts.Logger),
		practice: opts.Practice,
		log:      opts.Logger,
		now:      opts.Now,
	}, nil
}

// Today is the current calendar day.
func (s *Service) Today() time.Time {
	return calendar.Date(s.now())
}
