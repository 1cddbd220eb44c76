package entity

import (
	"time"

	"github.com/google/uuid"
)

type FrequencyType string

const (
	FrequencyDaily    FrequencyType = "daily"
	FrequencyWeekly   FrequencyType = "weekly"
	FrequencyInterval FrequencyType = "interval"
)

type User struct {
	ID           uuid.UUID
	Name         string
	PasswordHash string
}

type Notification struct {
	Enabled bool `json:"enabled"`
	// "HH:MM", empty when no reminder is set
	ReminderTime string `json:"reminder_time,omitempty"`
}

type Habit struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"uid"`
	Title       string    `json:"title"`
	Description string    `json:"desc"`
	Category    string    `json:"category"`
	Color       string    `json:"color"`

	FrequencyType FrequencyType `json:"frequency_type"`
	DaysOfWeek    []int         `json:"days_of_week,omitempty"`
	IntervalDays  int           `json:"interval_days,omitempty"`
	StartDate     string        `json:"start_date,omitempty"`

	// Source of truth for every derived value below.
	CompletedDates []string `json:"completed_dates"`

	// Cached, recomputed from CompletedDates on every mutation and fetch.
	Completed     bool `json:"completed"`
	CurrentStreak int  `json:"current_streak"`
	LongestStreak int  `json:"longest_streak"`

	Notification *Notification `json:"notification,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type HabitCheck struct {
	ID        int       `json:"id"`
	HabitID   uuid.UUID `json:"habit_id"`
	CheckDate string    `json:"check_date"`
	CreatedAt time.Time `json:"created_at"`
}

type HabitStats struct {
	ID            uuid.UUID `json:"habit_id"`
	TotalChecks   int       `json:"total_checks"`
	CurrentStreak int       `json:"current_streak"`
	MaxStreak     int       `json:"max_streak"`
	LastCheck     string    `json:"last_check,omitempty"`
	// One decimal, as computed by the engine
	CompletionRate float64 `json:"completion_rate"`
	DisplayRate    int     `json:"display_rate"`
	ThisWeekRate   float64 `json:"this_week_rate"`
	LastWeekRate   float64 `json:"last_week_rate"`
	GrowthRate     float64 `json:"growth_rate"`
	TreeLevel      int     `json:"tree_level"`
}

type CompletionStatus struct {
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
	IsDue     bool   `json:"is_due"`
}

type TrendPoint struct {
	Date           string  `json:"date"`
	CompletionRate float64 `json:"completion_rate"`
}

type PushToken struct {
	UserID    uuid.UUID `json:"uid"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
}

type Category struct {
	Name   string `json:"name"`
	Custom bool   `json:"custom"`
}

// Recipient is an account eligible for push reminders.
type Recipient struct {
	UserID uuid.UUID `json:"uid"`
	Tokens []string  `json:"tokens"`
}

// Tree is one habit drawn in the garden.
type Tree struct {
	HabitID       uuid.UUID `json:"habit_id"`
	Title         string    `json:"title"`
	Color         string    `json:"color"`
	GrowthRate    float64   `json:"growth_rate"`
	Level         int       `json:"level"`
	CurrentStreak int       `json:"current_streak"`
}

type Garden struct {
	Weather     string  `json:"weather"`
	AverageRate float64 `json:"average_rate"`
	DisplayRate int     `json:"display_rate"`
	Trees       []Tree  `json:"trees"`
	// Habits sharing the best current streak, empty when nobody has one
	MostConsistent []uuid.UUID `json:"most_consistent"`
	BestStreak     int         `json:"best_streak"`
}
