package models

// GetID accessors let generic admin code read primary keys.

func (m Tournament) GetID() int64 { return m.ID }

func (m TournamentPhoto) GetID() int64 { return m.ID }

func (m TournamentRegistration) GetID() int64 { return m.ID }

func (m Category) GetID() int64 { return m.ID }

func (m Product) GetID() int64 { return m.ID }

func (m Post) GetID() int64 { return m.ID }

func (m AcademyLead) GetID() int64 { return m.ID }

func (m NGOApplication) GetID() int64 { return m.ID }

func (m NGOVolunteer) GetID() int64 { return m.ID }

func (m NGODonation) GetID() int64 { return m.ID }

func (m TeamMember) GetID() int64 { return m.ID }

func (m Testimonial) GetID() int64 { return m.ID }

func (m Partner) GetID() int64 { return m.ID }

func (m DailyPuzzle) GetID() int64 { return m.ID }

func (m NGOStory) GetID() int64 { return m.ID }

func (m Subscriber) GetID() int64 { return m.ID }
