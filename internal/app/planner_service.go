package app

import (
	"time"

	"mealmate/internal/domain"
)

// MealSource supplies the current meal collection.
type MealSource interface {
	Meals() []domain.Meal
}

// PlannerService derives the weekly view, statistics and greeting from the
// meal collection. The clock is injected so "today" is testable.
type PlannerService struct {
	meals     MealSource
	now       func() time.Time
	weekStart time.Weekday
	mode      domain.Mode
}

// PlannerOption configures a PlannerService.
type PlannerOption func(*PlannerService)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) PlannerOption {
	return func(p *PlannerService) { p.now = now }
}

// WithWeekStart sets the first day of the week window.
func WithWeekStart(d time.Weekday) PlannerOption {
	return func(p *PlannerService) { p.weekStart = d }
}

// WithMode sets the default slot mode for views.
func WithMode(m domain.Mode) PlannerOption {
	return func(p *PlannerService) { p.mode = m }
}

// NewPlannerService creates a PlannerService over src. Weeks start on Monday
// and views are date-based unless configured otherwise.
func NewPlannerService(src MealSource, opts ...PlannerOption) *PlannerService {
	p := &PlannerService{meals: src, now: time.Now, weekStart: time.Monday, mode: domain.ModeDate}
	for _, o := range opts {
		o(p)
	}
	return p
}

// WeekView is a domain.View with navigation hints for the week header.
type WeekView struct {
	domain.View
	Title string `json:"title"`
	Prev  string `json:"prev"`
	Next  string `json:"next"`
	Today string `json:"today"`
}

// Today returns the calendar date of the injected clock.
func (p *PlannerService) Today() string {
	return p.now().Format(domain.DateLayout)
}

// CurrentWeek is the window containing today.
func (p *PlannerService) CurrentWeek() domain.Week {
	return domain.WeekOf(p.now(), p.weekStart)
}

// WeekAt is the window containing anchor.
func (p *PlannerService) WeekAt(anchor time.Time) domain.Week {
	return domain.WeekOf(anchor, p.weekStart)
}

// View builds the grouped view of w. An empty query mode falls back to the
// service default.
func (p *PlannerService) View(w domain.Week, q domain.ViewQuery) WeekView {
	if q.Mode == "" {
		q.Mode = p.mode
	}
	return WeekView{
		View:  domain.BuildView(p.meals.Meals(), q, w),
		Title: w.String(),
		Prev:  w.Prev().Start().Format(domain.DateLayout),
		Next:  w.Next().Start().Format(domain.DateLayout),
		Today: p.Today(),
	}
}

// Stats counts the meals of w per category, optionally favorites only.
func (p *PlannerService) Stats(w domain.Week, favoritesOnly bool) []domain.CategoryCount {
	v := domain.BuildView(p.meals.Meals(), domain.ViewQuery{FavoritesOnly: favoritesOnly, Mode: p.mode}, w)
	return domain.CountByCategory(v.Meals)
}

// Greeting returns the welcome line for the current hour.
func (p *PlannerService) Greeting() string {
	return domain.Greeting(p.now())
}
