package db

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	seedTiers     = []string{"free", "free", "basic", "gold", "platinum"}
	seedInterests = []string{"hiking", "cooking", "music", "travel", "film", "climbing", "books", "gaming", "yoga", "art"}
	seedZones     = []string{"Europe/London", "Europe/Berlin", "America/New_York", "UTC"}
)

// SeedOptions controls SeedTestData.
type SeedOptions struct {
	Users int
	Seed  int64 // 0 means time-based
}

// SeedTestData resets the database and populates it with demo users,
// behaviour stats, learned preferences and discovery queues.
//
// Behavior:
//  1. Clears every table owned by the engine.
//  2. Creates opts.Users users (half male, half female) with hashed passwords.
//  3. Gives every user stats + preferences and queues ~12 opposite-gender candidates.
//
// Compatible with MySQL, Postgres and SQLite.
func SeedTestData(db *gorm.DB, opts SeedOptions) error {
	if opts.Users <= 0 {
		opts.Users = 20
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	r := rand.New(rand.NewSource(seed))

	if err := clearTables(db); err != nil {
		return err
	}
	log.Println("Cleared existing data")

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	users := make([]User, 0, opts.Users)
	for i := 1; i <= opts.Users; i++ {
		gender := "male"
		if i > opts.Users/2 {
			gender = "female"
		}
		lat := 51.3 + r.Float64()*0.4
		lon := -0.4 + r.Float64()*0.6
		lastActive := now.Add(-time.Duration(r.Intn(48)) * time.Hour)

		users = append(users, User{
			ID:                uint64(i),
			Username:          fmt.Sprintf("user%d", i),
			Email:             fmt.Sprintf("user%d@example.com", i),
			PasswordHash:      string(hash),
			Active:            true,
			Gender:            gender,
			Age:               21 + r.Intn(20),
			MembershipTier:    seedTiers[r.Intn(len(seedTiers))],
			Timezone:          seedZones[r.Intn(len(seedZones))],
			ProfileCompletion: 0.4 + r.Float64()*0.6,
			ResponseRate:      r.Float64(),
			Interests:         datatypes.JSONSlice[string](pickInterests(r, 3)),
			Latitude:          &lat,
			Longitude:         &lon,
			LastLoginAt:       lastActive,
			LastActiveAt:      &lastActive,
		})
	}
	if err := db.Create(&users).Error; err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}
	log.Printf("Seeded %d users.", len(users))

	for _, u := range users {
		if err := db.Create(randomStats(r, u.ID, now)).Error; err != nil {
			return fmt.Errorf("failed to seed stats: %w", err)
		}
		if err := db.Create(randomPreferences(r, u.ID)).Error; err != nil {
			return fmt.Errorf("failed to seed preferences: %w", err)
		}
	}

	queued := 0
	for _, u := range users {
		for j := 0; j < 12; j++ {
			c := users[r.Intn(len(users))]
			if c.ID == u.ID || c.Gender == u.Gender {
				continue
			}
			entry := QueueEntry{
				UserID:             u.ID,
				CandidateID:        c.ID,
				CompatibilityScore: r.Float64(),
				InsertedAt:         now,
			}
			err := db.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "candidate_id"}},
				DoNothing: true,
			}).Create(&entry).Error
			if err != nil {
				return fmt.Errorf("failed to seed queue: %w", err)
			}
			queued++
		}
	}
	log.Printf("Seeded %d queue entries.", queued)

	return nil
}

// SeedMinimalTestData inserts three complete profiles and nothing else.
func SeedMinimalTestData(db *gorm.DB) error {
	if err := clearTables(db); err != nil {
		return err
	}
	users := []User{
		{ID: 1, Username: "user1", Email: "u1@test.com", PasswordHash: "x", Gender: "male", Active: true, MembershipTier: "free"},
		{ID: 2, Username: "user2", Email: "u2@test.com", PasswordHash: "x", Gender: "female", Active: true, MembershipTier: "gold"},
		{ID: 3, Username: "user3", Email: "u3@test.com", PasswordHash: "x", Gender: "female", Active: true, MembershipTier: "basic"},
	}
	return db.Create(&users).Error
}

func clearTables(db *gorm.DB) error {
	for _, table := range []string{"pair_locks", "blocks", "queue_entries", "matches", "actions", "learned_preferences", "behavior_stats", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	// Reset auto-increment sequences where the dialect has them.
	switch db.Dialector.Name() {
	case "mysql":
		db.Exec("ALTER TABLE users AUTO_INCREMENT = 1")
		db.Exec("ALTER TABLE queue_entries AUTO_INCREMENT = 1")
	case "sqlite":
		db.Exec("DELETE FROM sqlite_sequence WHERE name IN ('users', 'queue_entries', 'blocks')")
	}
	return nil
}

func pickInterests(r *rand.Rand, n int) []string {
	idx := r.Perm(len(seedInterests))[:n]
	out := make([]string, 0, n)
	for _, i := range idx {
		out = append(out, seedInterests[i])
	}
	return out
}

func randomStats(r *rand.Rand, userID uint64, now time.Time) *BehaviorStat {
	hours := make([]float64, 24)
	for h := range hours {
		hours[h] = float64(r.Intn(20))
	}
	week := make([]float64, 168)
	for h := range week {
		week[h] = float64(r.Intn(5))
	}
	actions := int64(10 + r.Intn(200))
	return &BehaviorStat{
		UserID:              userID,
		ActionCount:         actions,
		LikeCount:           int64(r.Int63n(actions + 1)),
		ActiveHours:         hours,
		AvgResponseSeconds:  30 + r.Float64()*600,
		AvgSessionSeconds:   60 + r.Float64()*1200,
		MessageCount:        int64(r.Intn(500)),
		AvgMessageLength:    10 + r.Float64()*120,
		MessagesPerDay:      r.Float64() * 40,
		EmojiRate:           r.Float64(),
		QuestionRatio:       r.Float64() * 0.5,
		WeeklyActivity:      week,
		AvgRelationshipDays: r.Float64() * 700,
		ComputedAt:          now,
	}
}

func randomPreferences(r *rand.Rand, userID uint64) *LearnedPreference {
	w := make(map[string]float64, 4)
	for _, in := range pickInterests(r, 4) {
		w["interest:"+in] = r.Float64()
	}
	return &LearnedPreference{UserID: userID, Weights: datatypes.NewJSONType(w)}
}
