package commands

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"rozadaar/internal/application"
	"rozadaar/internal/domain"
)

// settingSetters maps the user-facing setting names to their setters
var settingSetters = map[string]func(c *application.Catalog, s *domain.Settings, value string) error{
	"notifications": func(_ *application.Catalog, s *domain.Settings, value string) error {
		b, err := parseBool("notifications", value)
		s.NotificationsEnabled = b
		return err
	},
	"autosync": func(_ *application.Catalog, s *domain.Settings, value string) error {
		b, err := parseBool("autosync", value)
		s.AutoSync = b
		return err
	},
	"language": func(_ *application.Catalog, s *domain.Settings, value string) error {
		if value != "en" && value != "ur" {
			return &application.ValidationError{Field: "language", Message: "language must be en or ur"}
		}
		s.Language = value
		return nil
	},
	"location": func(c *application.Catalog, s *domain.Settings, value string) error {
		if err := application.ValidateRequired("locationID", value); err != nil {
			return err
		}
		if _, err := c.Location(value); err != nil {
			return err
		}
		s.SelectedLocationID = value
		return nil
	},
	"sehri-offset": func(_ *application.Catalog, s *domain.Settings, value string) error {
		n, err := parseOffset("sehriAlertOffset", value)
		s.SehriAlertOffset = n
		return err
	},
	"iftar-offset": func(_ *application.Catalog, s *domain.Settings, value string) error {
		n, err := parseOffset("iftarAlertOffset", value)
		s.IftarAlertOffset = n
		return err
	},
}

// SettingNames returns the names accepted by SetSettingCommand
func SettingNames() []string {
	names := make([]string, 0, len(settingSetters))
	for name := range settingSetters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetSettingCommand changes one preference
type SetSettingCommand struct {
	catalog *application.Catalog
	Name    string
	Value   string
}

// NewSetSettingCommand creates a new SetSettingCommand
func NewSetSettingCommand(catalog *application.Catalog, name, value string) *SetSettingCommand {
	return &SetSettingCommand{
		catalog: catalog,
		Name:    strings.ToLower(strings.TrimSpace(name)),
		Value:   strings.TrimSpace(value),
	}
}

// Validate checks the setting name
func (c *SetSettingCommand) Validate() error {
	if _, ok := settingSetters[c.Name]; !ok {
		return &application.ValidationError{
			Field:   "setting",
			Message: fmt.Sprintf("unknown setting %q (known: %s)", c.Name, strings.Join(SettingNames(), ", ")),
		}
	}
	return nil
}

// Execute runs the set setting command
func (c *SetSettingCommand) Execute(ctx context.Context) (domain.Settings, error) {
	if err := c.Validate(); err != nil {
		return c.catalog.Settings(), err
	}
	set := settingSetters[c.Name]
	return c.catalog.UpdateSettings(ctx, func(s *domain.Settings) error {
		return set(c.catalog, s, c.Value)
	})
}

func parseBool(field, value string) (bool, error) {
	switch strings.ToLower(value) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	}
	return false, &application.ValidationError{Field: field, Message: fmt.Sprintf("%s must be on or off", field)}
}

func parseOffset(field, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, &application.ValidationError{Field: field, Message: "offset must be a whole number of minutes"}
	}
	return n, application.ValidateOffset(field, n)
}
