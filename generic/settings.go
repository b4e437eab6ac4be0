package generic

import "fmt"

// CompanySettings are the planning inputs a company configures once.
type CompanySettings struct {
	// WeeklyHours is the company-wide standard work week.
	WeeklyHours Hours
	// DisplayMode is how the grid is typed by default.
	DisplayMode DisplayMode
	Thresholds  Thresholds
}

// DefaultSettings is a 40 hour week in percentage mode with default zones.
func DefaultSettings() CompanySettings {
	return CompanySettings{
		WeeklyHours: HoursFromInt(DefaultWeeklyHours),
		DisplayMode: ModePercentage,
		Thresholds:  DefaultThresholds(),
	}
}

func (s CompanySettings) Validate() error {
	if !s.WeeklyHours.IsPositive() {
		return fmt.Errorf("%w: weekly hours must be positive, got %s", ErrInvalidSettings, s.WeeklyHours)
	}
	if _, ok := ParseDisplayMode(string(s.DisplayMode)); !ok {
		return fmt.Errorf("%w: unknown display mode %q", ErrInvalidSettings, s.DisplayMode)
	}
	if err := s.Thresholds.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}
	return nil
}
