package models

import "time"

// DashboardSummary is the admin landing overview.
type DashboardSummary struct {
	NewLeads                int       `db:"new_leads" json:"newLeads"`
	PendingApplications     int       `db:"pending_applications" json:"pendingApplications"`
	PendingVolunteers       int       `db:"pending_volunteers" json:"pendingVolunteers"`
	UpcomingTournaments     int       `db:"upcoming_tournaments" json:"upcomingTournaments"`
	ConfirmedRegistrations  int       `db:"confirmed_registrations" json:"confirmedRegistrations"`
	WaitlistedRegistrations int       `db:"waitlisted_registrations" json:"waitlistedRegistrations"`
	ActiveSubscribers       int       `db:"active_subscribers" json:"activeSubscribers"`
	DonationTotal           float64   `db:"donation_total" json:"donationTotal"`
	GeneratedAt             time.Time `db:"-" json:"generatedAt"`
}
