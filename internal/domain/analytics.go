package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Visit is one tracked app start reported by a device
type Visit struct {
	VisitorID        string `json:"visitorId"`
	IsInstalled      bool   `json:"isInstalled"`
	Platform         string `json:"platform"`
	LocationID       string `json:"locationId,omitempty"`
	Language         string `json:"language,omitempty"`
	IsNewSession     bool   `json:"isNewSession"`
	IP               string `json:"ip,omitempty"`
	UserAgent        string `json:"userAgent,omitempty"`
	ScreenResolution string `json:"screenResolution,omitempty"`
	Referrer         string `json:"referrer,omitempty"`
}

// Visitor is the profile of one device, updated on every visit
type Visitor struct {
	VisitorID        string    `json:"visitorId"`
	IsInstalled      bool      `json:"isInstalled"`
	Platform         string    `json:"platform"`
	LocationID       string    `json:"locationId"`
	Language         string    `json:"language"`
	FirstSeen        time.Time `json:"firstSeen"`
	LastSeen         time.Time `json:"lastSeen"`
	VisitCount       int       `json:"visitCount"`
	IP               string    `json:"ip"`
	UserAgent        string    `json:"userAgent"`
	ScreenResolution string    `json:"screenResolution"`
	Referrer         string    `json:"referrer"`
}

// NewVisitor creates the profile of a first visit
func NewVisitor(v Visit, at time.Time) Visitor {
	return Visitor{
		VisitorID:        v.VisitorID,
		IsInstalled:      v.IsInstalled,
		Platform:         v.Platform,
		LocationID:       v.LocationID,
		Language:         v.Language,
		FirstSeen:        at,
		LastSeen:         at,
		VisitCount:       1,
		IP:               v.IP,
		UserAgent:        v.UserAgent,
		ScreenResolution: v.ScreenResolution,
		Referrer:         v.Referrer,
	}
}

// Apply records a later visit. Location and language are only replaced when
// the visit names them; the session details always follow the latest visit.
func (p *Visitor) Apply(v Visit, at time.Time) {
	p.LastSeen = at
	p.VisitCount++
	p.IsInstalled = v.IsInstalled
	if v.LocationID != "" {
		p.LocationID = v.LocationID
	}
	if v.Language != "" {
		p.Language = v.Language
	}
	p.IP = v.IP
	p.UserAgent = v.UserAgent
	p.ScreenResolution = v.ScreenResolution
	p.Referrer = v.Referrer
}

// StatDate returns the UTC day a visit at t is counted on
func StatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// DailyStat holds the counters of one UTC day
type DailyStat struct {
	Date           string `json:"date"`
	TotalHits      int    `json:"totalHits"`
	UniqueVisitors int    `json:"uniqueVisitors"`
	NewUsers       int    `json:"newUsers"`
	InstallCount   int    `json:"installCount"`
}

// Count adds a visit to the day's counters
func (d *DailyStat) Count(v Visit, newVisitor bool) {
	d.TotalHits++
	if newVisitor {
		d.NewUsers++
	}
	if v.IsNewSession {
		d.UniqueVisitors++
	}
	if v.IsInstalled {
		d.InstallCount++
	}
}

// Add sums another day's counters into d, keeping d's date
func (d *DailyStat) Add(o DailyStat) {
	d.TotalHits += o.TotalHits
	d.UniqueVisitors += o.UniqueVisitors
	d.NewUsers += o.NewUsers
	d.InstallCount += o.InstallCount
}

// Period narrows visitor listings by last activity
type Period string

const (
	PeriodToday    Period = "today"
	PeriodWeek     Period = "week"
	PeriodMonth    Period = "month"
	PeriodLifetime Period = "lifetime"
)

// ParsePeriod accepts the period names case-insensitively. Empty means lifetime.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PeriodLifetime, nil
	case PeriodToday, PeriodWeek, PeriodMonth, PeriodLifetime:
		return p, nil
	default:
		return "", fmt.Errorf("unknown period %q (today, week, month, lifetime)", s)
	}
}

// Since returns the earliest last-seen instant included by the period.
// Today starts at UTC midnight; week and month reach back 7 and 30 days.
func (p Period) Since(now time.Time) (time.Time, bool) {
	now = now.UTC()
	switch p {
	case PeriodToday:
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
	case PeriodWeek:
		return now.AddDate(0, 0, -7), true
	case PeriodMonth:
		return now.AddDate(0, 0, -30), true
	default:
		return time.Time{}, false
	}
}

// Totals sums visits, visitors and installs over a span of days
type Totals struct {
	Visits   int `json:"visits"`
	Visitors int `json:"visitors"`
	NewUsers int `json:"newUsers"`
	Installs int `json:"installs"`
}

// TotalsOf converts summed daily counters
func TotalsOf(d DailyStat) Totals {
	return Totals{Visits: d.TotalHits, Visitors: d.UniqueVisitors, NewUsers: d.NewUsers, Installs: d.InstallCount}
}

// Overall summarizes the visitor base
type Overall struct {
	TotalUsers     int     `json:"totalUsers"`
	InstalledUsers int     `json:"installedUsers"`
	InstallRate    float64 `json:"installRate"` // percent, one decimal
}

// NewOverall computes the install rate rounded to one decimal
func NewOverall(total, installed int) Overall {
	o := Overall{TotalUsers: total, InstalledUsers: installed}
	if total > 0 {
		o.InstallRate = math.Round(float64(installed)*1000/float64(total)) / 10
	}
	return o
}

// Metrics groups totals by span
type Metrics struct {
	Lifetime Totals `json:"lifetime"`
	Today    Totals `json:"today"`
	Week     Totals `json:"week"`
	Month    Totals `json:"month"`
}

// PlatformCount is the number of visitors on one platform
type PlatformCount struct {
	Platform string `json:"platform"`
	Count    int    `json:"count"`
}

// StatsReport is the analytics dashboard
type StatsReport struct {
	Overall     Overall         `json:"overall"`
	Metrics     Metrics         `json:"metrics"`
	History     []DailyStat     `json:"history"`
	Platforms   []PlatformCount `json:"platforms"`
	RecentUsers []Visitor       `json:"recentUsers"`
}

// Listing defaults
const (
	DefaultVisitorPageSize = 20
	MaxVisitorPageSize     = 200
)

// VisitorQuery selects a page of visitors
type VisitorQuery struct {
	Period        Period
	InstalledOnly bool
	Page          int // 1-based
	Limit         int
}

// Normalize fills defaults: lifetime, page 1, DefaultVisitorPageSize rows,
// and caps the page size at MaxVisitorPageSize.
func (q VisitorQuery) Normalize() VisitorQuery {
	if q.Period == "" {
		q.Period = PeriodLifetime
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultVisitorPageSize
	}
	if q.Limit > MaxVisitorPageSize {
		q.Limit = MaxVisitorPageSize
	}
	return q
}

// VisitorPage is one page of a visitor listing
type VisitorPage struct {
	Users      []Visitor `json:"users"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	TotalPages int       `json:"totalPages"`
}

// PlatformOf classifies a user agent the way the web client does, falling
// back to the Go runtime name for native clients.
func PlatformOf(userAgent, goos string) string {
	ua := strings.ToLower(userAgent)
	switch {
	case strings.Contains(ua, "android"):
		return "Android"
	case strings.Contains(ua, "iphone"), strings.Contains(ua, "ipad"), strings.Contains(ua, "ipod"):
		return "iOS"
	case strings.Contains(ua, "windows"):
		return "Windows"
	case strings.Contains(ua, "macintosh"):
		return "Mac"
	}
	switch goos {
	case "windows":
		return "Windows"
	case "darwin":
		return "Mac"
	case "linux":
		return "Linux"
	case "android":
		return "Android"
	case "ios":
		return "iOS"
	}
	return "Web"
}
