package views

import "rozadaar/internal/domain"

// ViewState contains common state shared by all view models.
// Embed this struct in view models to get width/height and message handling.
type ViewState struct {
	Width      int
	Height     int
	Message    string
	MessageErr bool
}

// SetSize updates the view dimensions
func (s *ViewState) SetSize(width, height int) {
	s.Width = width
	s.Height = height
}

// SetMessage sets a message to display in the view
func (s *ViewState) SetMessage(msg string, isErr bool) {
	s.Message = msg
	s.MessageErr = isErr
}

// ClearMessage clears the current message
func (s *ViewState) ClearMessage() {
	s.Message = ""
	s.MessageErr = false
}

// View switching messages
type (
	SwitchToCountdownMsg struct{}
	SwitchToCalendarMsg  struct{}
	SwitchToLocationsMsg struct{}
	SwitchToHelpMsg      struct{}
)

// LocationSelectedMsg is sent when the user picks a location
type LocationSelectedMsg struct {
	ID string
}

// Localizer picks the English or Urdu variant of displayed text
type Localizer struct {
	Urdu bool
}

// Text returns the variant for the current language, falling back to English
func (l Localizer) Text(t domain.LocalizedText) string {
	if l.Urdu && t.Ur != "" {
		return t.Ur
	}
	return t.En
}

// Pick returns ur in Urdu mode when it is set, en otherwise
func (l Localizer) Pick(en, ur string) string {
	if l.Urdu && ur != "" {
		return ur
	}
	return en
}

// Code returns the settings language code
func (l Localizer) Code() string {
	if l.Urdu {
		return "ur"
	}
	return "en"
}

// Digits converts ASCII digits in Urdu mode
func (l Localizer) Digits(s string) string {
	if l.Urdu {
		return domain.ToUrduDigits(s)
	}
	return s
}
