package sandbox

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/tobiusaolo/Cariya-wallet/models"
	"github.com/tobiusaolo/Cariya-wallet/validate"
)

// expectedMonthlySavings is the milestone threshold: 1000 UGX per child per
// month, following the production scoring rules.
func expectedMonthlySavings(numChildren int) float64 {
	return 1000 * float64(numChildren)
}

type monthRecord struct {
	Savings           float64
	MilestoneScore    int
	DonorContribution float64
	HasActivity       bool
	Activity          string
	Partner           string
}

type user struct {
	Profile      models.Registration
	PasswordHash []byte
	Months       map[string]*monthRecord
	Statements   []models.Statement

	ActivityPoints  int
	ComplianceScore int
	DonorTotal      float64
}

// state is the whole in-memory world of the sandbox, guarded by one mutex.
type state struct {
	mu       sync.Mutex
	users    map[string]*user // keyed by generated id
	byMobile map[string]string
	now      func() time.Time
}

func newState() *state {
	return &state{
		users:    make(map[string]*user),
		byMobile: make(map[string]string),
		now:      time.Now,
	}
}

func monthKey(t time.Time, month int) string {
	return fmt.Sprintf("%d-%02d", t.Year(), month)
}

// generateID builds the human-readable identifier the production backend
// uses: initials + mobile digits + child count + concatenated ages.
func generateID(form models.Registration) string {
	first := strings.ToUpper(form.FirstName[:1])
	last := strings.ToUpper(form.Surname[:1])
	digits := strings.TrimPrefix(form.MobileNumber, "+256")
	ages := strings.Join(validate.ParseChildrenAges(form.AgesOfChildren), "")
	return fmt.Sprintf("%s%s%s%d%s", first, last, digits, form.NumChildren, ages)
}

func (s *state) register(form models.Registration, password string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byMobile[form.MobileNumber]; taken {
		return "", badRequest("Mobile number %s is already registered", form.MobileNumber)
	}
	id := generateID(form)
	if _, exists := s.users[id]; exists {
		return "", badRequest("User with ID %s already exists", id)
	}

	u := &user{
		Profile: form,
		Months:  make(map[string]*monthRecord),
	}
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return "", err
		}
		u.PasswordHash = hash
	}
	s.users[id] = u
	s.byMobile[form.MobileNumber] = id
	return id, nil
}

// login resolves a mobile number and checks the password when one was set at
// registration. Accounts without a stored hash accept any password, matching
// the production backend's current behavior.
func (s *state) login(mobile, password string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byMobile[mobile]
	if !ok {
		return "", unauthorized("Invalid mobile number or password")
	}
	u := s.users[id]
	if len(u.PasswordHash) > 0 {
		if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
			return "", unauthorized("Invalid mobile number or password")
		}
	}
	return id, nil
}

func (s *state) snapshot(id string) (*models.AccountSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, notFound(id)
	}

	total := 0.0
	monthly := make(map[string]models.MonthlySavings, len(u.Months))
	for key, rec := range u.Months {
		total += rec.Savings
		monthly[key] = models.MonthlySavings{
			Savings:           rec.Savings,
			MilestoneScore:    rec.MilestoneScore,
			DonorContribution: rec.DonorContribution,
		}
	}

	milestones := 0
	for _, rec := range u.Months {
		milestones += rec.MilestoneScore
	}

	return &models.AccountSnapshot{
		FirstName:       u.Profile.FirstName,
		Surname:         u.Profile.Surname,
		TotalSavings:    total,
		MonthlyData:     monthly,
		ActivityPoints:  u.ActivityPoints,
		MilestoneScore:  milestones,
		ComplianceScore: fmt.Sprintf("%d/%d", u.ComplianceScore, s.maxCompliance()),
	}, nil
}

func (s *state) maxCompliance() int {
	// Two compliance points per elapsed month: one milestone, one activity.
	return int(s.now().Month()) * 2
}

// recompute walks the elapsed months of the current year and rebuilds the
// derived activity and compliance scores, the way the production scorer does
// after every write.
func (s *state) recompute(u *user) {
	currentMonth := int(s.now().Month())
	points, compliance := 0, 0
	for m := 1; m <= currentMonth; m++ {
		rec, ok := u.Months[monthKey(s.now(), m)]
		if !ok {
			continue
		}
		if rec.HasActivity {
			points++
			compliance++
		}
		compliance += rec.MilestoneScore
	}
	u.ActivityPoints = points
	u.ComplianceScore = compliance
}

func (s *state) addSavings(id string, entry models.SavingsEntry) (*models.ActivityResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, notFound(id)
	}
	if entry.Amount < 0 {
		return nil, badRequest("Savings amount cannot be negative")
	}

	key := monthKey(s.now(), int(s.now().Month()))
	rec := u.Months[key]
	if rec == nil {
		rec = &monthRecord{}
		u.Months[key] = rec
	}
	rec.Savings += entry.Amount
	if rec.Savings >= expectedMonthlySavings(u.Profile.NumChildren) {
		rec.MilestoneScore = 1
	}

	date := entry.Date
	if date == "" {
		date = s.now().Format("2006-01-02")
	}
	u.Statements = append(u.Statements, models.Statement{
		Date:     date,
		Amount:   entry.Amount,
		Activity: entry.Activity,
	})

	s.recompute(u)
	return &models.ActivityResponse{
		Message:         fmt.Sprintf("Savings added for month %s", key),
		ActivityPoints:  u.ActivityPoints,
		ComplianceScore: fmt.Sprintf("%d/%d", u.ComplianceScore, s.maxCompliance()),
	}, nil
}

func (s *state) savings(id string) (*models.SavingsOverview, []models.Statement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, nil, notFound(id)
	}
	total := 0.0
	for _, rec := range u.Months {
		total += rec.Savings
	}
	overview := &models.SavingsOverview{
		TotalSavings:  total,
		TargetSavings: expectedMonthlySavings(u.Profile.NumChildren) * 12,
	}
	statements := make([]models.Statement, len(u.Statements))
	copy(statements, u.Statements)
	return overview, statements, nil
}

func (s *state) compliance(id string) (*models.ComplianceResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, notFound(id)
	}
	return &models.ComplianceResponse{
		FirstName:       u.Profile.FirstName,
		Surname:         u.Profile.Surname,
		ComplianceScore: fmt.Sprintf("%d/%d", u.ComplianceScore, s.maxCompliance()),
	}, nil
}

func (s *state) addActivity(id string, activity models.MonthlyActivity) (*models.ActivityResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, notFound(id)
	}
	if activity.Month < 1 || activity.Month > 12 {
		return nil, badRequest("Month must be between 1 and 12")
	}
	if activity.Month > int(s.now().Month()) {
		return nil, badRequest("Cannot add activity for future month %d", activity.Month)
	}

	key := monthKey(s.now(), activity.Month)
	rec := u.Months[key]
	if rec == nil {
		rec = &monthRecord{}
		u.Months[key] = rec
	}
	rec.HasActivity = true
	rec.Activity = activity.Activity
	rec.Partner = activity.Partner

	s.recompute(u)
	return &models.ActivityResponse{
		Message:         fmt.Sprintf("Activity added for month %s", key),
		ActivityPoints:  u.ActivityPoints,
		ComplianceScore: fmt.Sprintf("%d/%d", u.ComplianceScore, s.maxCompliance()),
	}, nil
}

func (s *state) updateProfile(id string, form models.Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return notFound(id)
	}
	if form.MobileNumber != u.Profile.MobileNumber {
		if _, taken := s.byMobile[form.MobileNumber]; taken {
			return badRequest("Mobile number %s is already registered", form.MobileNumber)
		}
		delete(s.byMobile, u.Profile.MobileNumber)
		s.byMobile[form.MobileNumber] = id
	}
	u.Profile = form
	return nil
}

func (s *state) donorView() *models.DonorView {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := &models.DonorView{DonorView: []models.DonorSummary{}}
	for id, u := range s.users {
		monthly := make(map[string]models.DonorMonthly, len(u.Months))
		userTotal := 0.0
		for key, rec := range u.Months {
			userTotal += rec.Savings
			monthly[key] = models.DonorMonthly{
				UserSavings:       rec.Savings,
				DonorContribution: rec.DonorContribution,
			}
		}
		view.DonorView = append(view.DonorView, models.DonorSummary{
			UserID:                  id,
			FirstName:               u.Profile.FirstName,
			Surname:                 u.Profile.Surname,
			TotalSavings:            userTotal + u.DonorTotal,
			TotalUserSavings:        userTotal,
			TotalDonorContributions: u.DonorTotal,
			MonthlyData:             monthly,
		})
	}
	return view
}

// httpErr pairs a response status with the detail string the client's error
// decoding expects.
type httpErr struct {
	status int
	detail string
}

func (e *httpErr) Error() string { return e.detail }

func badRequest(format string, args ...any) *httpErr {
	return &httpErr{status: 400, detail: fmt.Sprintf(format, args...)}
}

func unauthorized(detail string) *httpErr {
	return &httpErr{status: 401, detail: detail}
}

func notFound(id string) *httpErr {
	return &httpErr{status: 404, detail: fmt.Sprintf("No user found with unique identifier %s", id)}
}
