package domain

// UserLocation is the home location stored in a user profile.
type UserLocation struct {
	City    string  `json:"city"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// Preferences describe what kind of events a user wants to see.
type Preferences struct {
	Interests         []string `json:"interests"`
	Tags              []string `json:"tags"`
	PreferredSchedule string   `json:"preferredSchedule"`
	MaxDistance       float64  `json:"maxDistance"`
}

// Profile is the per-user view the agent works with. It is resolved once
// per chat turn and never mutated by the core.
type Profile struct {
	Name        string       `json:"name"`
	Location    UserLocation `json:"location"`
	Preferences Preferences  `json:"preferences"`
}

// User is the full stored record behind a Profile.
type User struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Email       string       `json:"email"`
	Avatar      string       `json:"avatar,omitempty"`
	Location    UserLocation `json:"location"`
	Preferences Preferences  `json:"preferences"`
}

// EventLocation is where a catalog event takes place.
type EventLocation struct {
	Venue   string `json:"venue"`
	City    string `json:"city"`
	Country string `json:"country"`
}

// CatalogEvent is read-only reference data owned by the event catalog.
type CatalogEvent struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Tags        []string      `json:"tags"`
	Category    string        `json:"category"`
	Location    EventLocation `json:"location"`
	Date        string        `json:"date"`
	Time        string        `json:"time"`
	Duration    string        `json:"duration"`
	ImageURL    string        `json:"imageUrl"`
	Capacity    int           `json:"capacity"`
	Price       string        `json:"price"`
	Organizer   string        `json:"organizer"`
}

// ScoredEvent is a CatalogEvent with its match score for one profile+intent.
// Produced fresh on every matching call, never persisted.
type ScoredEvent struct {
	CatalogEvent
	MatchScore int `json:"matchScore"`
}

// Option is the user-facing projection of a ScoredEvent. Field names are a
// wire contract with the model prompt and the UI.
type Option struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	ImageURL        string   `json:"imageUrl"`
	MatchPercentage int      `json:"matchPercentage"`
	Tags            []string `json:"tags"`
	Date            string   `json:"date"`
	Time            string   `json:"time"`
	Location        string   `json:"location"`
	Price           string   `json:"price"`
	Category        string   `json:"category"`
	Enrolled        bool     `json:"enrolled"`
	Saved           bool     `json:"saved"`
}

// OptionFromScored projects a scored event into its UI shape.
// Location collapses to "venue, city".
func OptionFromScored(e ScoredEvent) Option {
	return Option{
		ID:              e.ID,
		Title:           e.Title,
		Description:     e.Description,
		ImageURL:        e.ImageURL,
		MatchPercentage: e.MatchScore,
		Tags:            e.Tags,
		Date:            e.Date,
		Time:            e.Time,
		Location:        e.Location.Venue + ", " + e.Location.City,
		Price:           e.Price,
		Category:        e.Category,
		Enrolled:        false,
		Saved:           false,
	}
}

// Enrollment is the record returned by the enrollment sink.
type Enrollment struct {
	ID        string   `json:"id"`
	UserID    string   `json:"userId"`
	EventIDs  []string `json:"eventIds"`
	CreatedAt string   `json:"createdAt"`
}

// ChatResult is the sole contract returned to chat callers.
type ChatResult struct {
	Text    string   `json:"text"`
	Options []Option `json:"options"`
}
