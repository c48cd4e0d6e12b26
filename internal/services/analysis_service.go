package services

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/SydAsim/Visaguardai-Upwork/internal/apperrors"
	"github.com/SydAsim/Visaguardai-Upwork/internal/models"
	"github.com/SydAsim/Visaguardai-Upwork/internal/websocket"
)

// AnalysisServiceProvider defines the interface for analysis services.
type AnalysisServiceProvider interface {
	RunAnalysis() (models.AnalysisSnapshot, error)
	LatestReport() (models.AnalysisSnapshot, error)
}

// analysisSteps are the progress stages streamed to the client while a
// report is generated.
var analysisSteps = []string{
	"Connecting to platforms...",
	"Analyzing Instagram posts...",
	"Scanning TikTok content...",
	"Reviewing LinkedIn profile...",
	"Examining Twitter activity...",
	"Processing image content...",
	"Analyzing language patterns...",
	"Checking location data...",
	"Compiling risk assessment...",
	"Generating recommendations...",
}

// AnalysisService produces visa-risk reports from bounded random generation
// and caches the latest one on the user record. Rolls go through the
// top-level rand functions, which serialize access, so concurrent runs are
// safe.
type AnalysisService struct {
	accounts AccountServiceProvider
	events   EventServiceProvider
	hub      *websocket.Hub
}

// NewAnalysisService creates a new AnalysisService. The hub may be nil when
// no progress stream is wanted.
func NewAnalysisService(accounts AccountServiceProvider, events EventServiceProvider, hub *websocket.Hub) *AnalysisService {
	return &AnalysisService{
		accounts: accounts,
		events:   events,
		hub:      hub,
	}
}

// RunAnalysis generates a report for the current user's connected platforms,
// stamps it with the entitlement at generation time and caches it on the
// record, so revisiting the results view reproduces the same report class.
func (s *AnalysisService) RunAnalysis() (models.AnalysisSnapshot, error) {
	user, ok, err := s.accounts.CurrentUser()
	if err != nil {
		return models.AnalysisSnapshot{}, err
	}
	if !ok {
		return models.AnalysisSnapshot{}, apperrors.New(apperrors.CodeNotFound, "no active session")
	}

	platforms := user.ConnectedPlatforms()
	if len(platforms) == 0 {
		return models.AnalysisSnapshot{}, apperrors.New(apperrors.CodeValidation, "connect at least one social media platform")
	}

	for i, step := range analysisSteps {
		s.broadcast(user.Email, websocket.NewProgressMessage(i+1, len(analysisSteps), step))
	}

	displayType := models.DisplayFree
	if user.IsPaid {
		displayType = models.DisplayFull
	}
	snapshot := models.AnalysisSnapshot{
		Report:       s.generate(platforms),
		Date:         time.Now().UTC(),
		IsPaidResult: user.IsPaid,
		DisplayType:  displayType,
		Platforms:    platforms,
	}

	if _, err := s.accounts.UpdateCurrentUser(models.UserUpdate{LastAnalysis: &snapshot}); err != nil {
		return models.AnalysisSnapshot{}, err
	}

	message := fmt.Sprintf("Analysis complete across %d platform(s), overall risk %d%%.",
		len(platforms), snapshot.Report.OverallRisk)
	if err := s.events.Record("analysis.complete", "info", message, user.Email); err != nil {
		log.Warn().Err(err).Str("email", user.Email).Msg("Failed to record analysis event")
	}

	s.broadcast(user.Email, websocket.NewReportMessage(snapshot))
	return snapshot, nil
}

// LatestReport returns the cached snapshot for the current user.
func (s *AnalysisService) LatestReport() (models.AnalysisSnapshot, error) {
	user, ok, err := s.accounts.CurrentUser()
	if err != nil {
		return models.AnalysisSnapshot{}, err
	}
	if !ok {
		return models.AnalysisSnapshot{}, apperrors.New(apperrors.CodeNotFound, "no active session")
	}
	if user.LastAnalysis == nil {
		return models.AnalysisSnapshot{}, apperrors.New(apperrors.CodeNotFound, "no analysis has been run yet")
	}
	return *user.LastAnalysis, nil
}

func (s *AnalysisService) broadcast(email string, message []byte) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastTo(email, message)
}

// generate rolls a report within the product's fixed bounds.
func (s *AnalysisService) generate(platforms []string) models.AnalysisReport {
	report := models.AnalysisReport{
		ID:             uuid.New().String(),
		OverallRisk:    rand.Intn(30) + 10, // 10-39%
		ApprovalChance: rand.Intn(20) + 75, // 75-94%
		PostsAnalyzed:  rand.Intn(500) + 300,
		FlaggedItems:   rand.Intn(5) + 1,
		Categories: []models.CategoryReport{
			{Name: "Political Content", Risk: rand.Intn(30) + 5},
			{Name: "Language Issues", Risk: rand.Intn(25) + 10},
			{Name: "Location Concerns", Risk: rand.Intn(20) + 5},
			{Name: "Professional Image", Risk: rand.Intn(35) + 15},
			{Name: "Cultural Sensitivity", Risk: rand.Intn(40) + 10},
		},
		FlaggedContent: []models.FlaggedItem{
			{Platform: "Instagram", Content: "Post about political rally attendance", Risk: "Medium", Date: "2024-12-15"},
			{Platform: "Twitter", Content: "Tweet with strong political opinion", Risk: "High", Date: "2024-12-10"},
			{Platform: "LinkedIn", Content: "Comment on controversial topic", Risk: "Low", Date: "2024-12-08"},
		},
	}
	for _, platform := range platforms {
		report.Platforms = append(report.Platforms, models.PlatformReport{
			Name:  platform,
			Risk:  rand.Intn(60) + 10,
			Posts: rand.Intn(200) + 50,
		})
	}
	return report
}
