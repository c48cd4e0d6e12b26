package models

import (
	"encoding/json"
	"sort"
	"time"
)

// Platforms is the fixed set of social platforms an account can connect.
var Platforms = []string{"instagram", "tiktok", "linkedin", "twitter"}

// IsSupportedPlatform reports whether name is one of the known platforms.
func IsSupportedPlatform(name string) bool {
	for _, p := range Platforms {
		if p == name {
			return true
		}
	}
	return false
}

// Profile holds the optional personal details of a user.
type Profile struct {
	Name       string `json:"name"`
	Country    string `json:"country"`
	University string `json:"university"`
}

// Account is the connection state of a single social platform. Collections
// written by older releases stored a bare boolean per platform instead of an
// object; UnmarshalJSON accepts both shapes so either vintage of stored data
// decodes into the same type.
type Account struct {
	Connected bool   `json:"connected"`
	Username  string `json:"username,omitempty"`
}

func (a *Account) UnmarshalJSON(data []byte) error {
	var legacy bool
	if err := json.Unmarshal(data, &legacy); err == nil {
		*a = Account{Connected: legacy}
		return nil
	}

	type account Account // drop methods to avoid recursion
	var full account
	if err := json.Unmarshal(data, &full); err != nil {
		return err
	}
	*a = Account(full)
	return nil
}

// User represents a registered account in the collection.
type User struct {
	Email             string             `json:"email"`
	PasswordHash      string             `json:"passwordHash,omitempty"`
	IsPaid            bool               `json:"isPaid"`
	CreatedAt         time.Time          `json:"createdAt"`
	Profile           Profile            `json:"profile"`
	ConnectedAccounts map[string]Account `json:"connectedAccounts"`
	LastAnalysis      *AnalysisSnapshot  `json:"lastAnalysis,omitempty"`
}

// NewUser builds a user with the registration defaults: empty profile, every
// platform disconnected, free tier.
func NewUser(email, passwordHash string) User {
	accounts := make(map[string]Account, len(Platforms))
	for _, p := range Platforms {
		accounts[p] = Account{}
	}
	return User{
		Email:             email,
		PasswordHash:      passwordHash,
		CreatedAt:         time.Now().UTC(),
		ConnectedAccounts: accounts,
	}
}

// ConnectedPlatforms lists the platforms currently connected, sorted for
// stable output.
func (u User) ConnectedPlatforms() []string {
	var connected []string
	for name, account := range u.ConnectedAccounts {
		if account.Connected {
			connected = append(connected, name)
		}
	}
	sort.Strings(connected)
	return connected
}

// Sanitized returns a copy safe to hand to clients.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	return u
}

// UserUpdate is a partial update of a user record. A nil field leaves the
// stored value untouched; a present field replaces the stored top-level field
// in full. There is no deep merge: supplying Profile replaces all three of its
// sub-fields together.
type UserUpdate struct {
	IsPaid            *bool              `json:"isPaid,omitempty"`
	Profile           *Profile           `json:"profile,omitempty"`
	ConnectedAccounts map[string]Account `json:"connectedAccounts,omitempty"`
	LastAnalysis      *AnalysisSnapshot  `json:"lastAnalysis,omitempty"`
}

// Apply merges the update into the user with shallow top-level semantics.
func (u *User) Apply(update UserUpdate) {
	if update.IsPaid != nil {
		u.IsPaid = *update.IsPaid
	}
	if update.Profile != nil {
		u.Profile = *update.Profile
	}
	if update.ConnectedAccounts != nil {
		u.ConnectedAccounts = update.ConnectedAccounts
	}
	if update.LastAnalysis != nil {
		u.LastAnalysis = update.LastAnalysis
	}
}
