package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jobpilot/jobpilot-api/internal/core/domain"
	"github.com/jobpilot/jobpilot-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
	jobs  *stubJobRepo // cascade target, optional
	err   error        // if set, every call returns it
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	r.users[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByGoogleID(_ context.Context, googleID string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.GoogleID != nil && *u.GoogleID == googleID {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) update(id uuid.UUID, fn func(*domain.User)) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	fn(u)
	return cloneUser(u), nil
}

func (r *stubUserRepo) LinkGoogleID(_ context.Context, id uuid.UUID, googleID string) (*domain.User, error) {
	r.mu.Lock()
	u, ok := r.users[id]
	linked := ok && u.GoogleID != nil && *u.GoogleID != googleID
	r.mu.Unlock()
	if linked {
		return nil, domain.ErrGoogleAccountLinked
	}
	return r.update(id, func(u *domain.User) { u.GoogleID = &googleID })
}

func (r *stubUserRepo) UpdateName(_ context.Context, id uuid.UUID, firstName, lastName string) (*domain.User, error) {
	return r.update(id, func(u *domain.User) { u.FirstName, u.LastName = firstName, lastName })
}

func (r *stubUserRepo) SetAdmin(_ context.Context, id uuid.UUID, isAdmin bool) (*domain.User, error) {
	return r.update(id, func(u *domain.User) { u.IsAdmin = isAdmin })
}

func (r *stubUserRepo) List(_ context.Context) ([]domain.UserSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := make([]domain.UserSummary, 0, len(r.users))
	for _, u := range r.users {
		count := 0
		if r.jobs != nil {
			count = r.jobs.countFor(u.ID)
		}
		out = append(out, domain.UserSummary{
			PublicUser:  u.Public(),
			JobCount:    count,
			HasPassword: u.PasswordHash != nil,
			HasGoogle:   u.GoogleID != nil,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *stubUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	if r.jobs != nil {
		r.jobs.deleteOwner(id)
	}
	return nil
}

type stubJobRepo struct {
	mu   sync.Mutex
	jobs map[uuid.UUID]*domain.JobApplication
	err  error
}

func newStubJobRepo() *stubJobRepo {
	return &stubJobRepo{jobs: make(map[uuid.UUID]*domain.JobApplication)}
}

func (r *stubJobRepo) countFor(userID uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, j := range r.jobs {
		if j.UserID == userID {
			n++
		}
	}
	return n
}

func (r *stubJobRepo) deleteOwner(userID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, j := range r.jobs {
		if j.UserID == userID {
			delete(r.jobs, id)
		}
	}
}

// owned mirrors the real WHERE id = $1 AND user_id = $2 predicate.
func (r *stubJobRepo) owned(userID, id uuid.UUID) (*domain.JobApplication, bool) {
	j, ok := r.jobs[id]
	if !ok || j.UserID != userID {
		return nil, false
	}
	return j, true
}

func (r *stubJobRepo) Create(_ context.Context, job *domain.JobApplication) (*domain.JobApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	clone := *job
	r.jobs[job.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubJobRepo) FindByID(_ context.Context, userID, id uuid.UUID) (*domain.JobApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	j, ok := r.owned(userID, id)
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	clone := *j
	return &clone, nil
}

func (r *stubJobRepo) List(_ context.Context, f ports.JobFilter) ([]domain.JobApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := []domain.JobApplication{}
	for _, j := range r.jobs {
		if j.UserID != f.UserID {
			continue
		}
		if f.Status != "" && j.Status != f.Status {
			continue
		}
		out = append(out, *j)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].CreatedAt.After(out[k].CreatedAt) })
	return out, nil
}

func (r *stubJobRepo) Update(_ context.Context, job *domain.JobApplication) (*domain.JobApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	existing, ok := r.owned(job.UserID, job.ID)
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	clone := *job
	clone.CreatedAt = existing.CreatedAt
	r.jobs[job.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubJobRepo) UpdateStatus(_ context.Context, userID, id uuid.UUID, status domain.JobStatus) (*domain.JobApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	j, ok := r.owned(userID, id)
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	j.Status = status
	clone := *j
	return &clone, nil
}

func (r *stubJobRepo) Delete(_ context.Context, userID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if _, ok := r.owned(userID, id); !ok {
		return domain.ErrJobNotFound
	}
	delete(r.jobs, id)
	return nil
}

func (r *stubJobRepo) CountByStatus(_ context.Context, userID uuid.UUID, since time.Time) (map[domain.JobStatus]int, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, 0, r.err
	}
	counts := map[domain.JobStatus]int{}
	upcoming := 0
	for _, j := range r.jobs {
		if j.UserID != userID {
			continue
		}
		counts[j.Status]++
		if j.InterviewAt != nil && j.InterviewAt.After(since) {
			upcoming++
		}
	}
	return counts, upcoming, nil
}

type stubLogRepo struct {
	mu        sync.Mutex
	entries   []domain.LogEntry
	insertErr error
	lastQuery ports.LogFilter
}

func (r *stubLogRepo) Insert(_ context.Context, e *domain.LogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return r.insertErr
	}
	e.ID = int64(len(r.entries) + 1)
	r.entries = append(r.entries, *e)
	return nil
}

func (r *stubLogRepo) List(_ context.Context, f ports.LogFilter) ([]domain.LogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastQuery = f
	return append([]domain.LogEntry(nil), r.entries...), nil
}

func (r *stubLogRepo) bySource(source string) []domain.LogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.LogEntry
	for _, e := range r.entries {
		if e.Source == source {
			out = append(out, e)
		}
	}
	return out
}

type stubProfileRepo struct {
	mu          sync.Mutex
	profiles    map[uuid.UUID]domain.Profile
	experiences map[uuid.UUID]domain.Experience
	skills      map[uuid.UUID]domain.Skill
}

func newStubProfileRepo() *stubProfileRepo {
	return &stubProfileRepo{
		profiles:    make(map[uuid.UUID]domain.Profile),
		experiences: make(map[uuid.UUID]domain.Experience),
		skills:      make(map[uuid.UUID]domain.Skill),
	}
}

func (r *stubProfileRepo) Get(_ context.Context, userID uuid.UUID) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID]
	if !ok {
		return &domain.Profile{UserID: userID}, nil
	}
	return &p, nil
}

func (r *stubProfileRepo) Upsert(_ context.Context, p *domain.Profile) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[p.UserID] = *p
	out := *p
	return &out, nil
}

func (r *stubProfileRepo) ListExperiences(_ context.Context, userID uuid.UUID) ([]domain.Experience, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Experience
	for _, e := range r.experiences {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *stubProfileRepo) CreateExperience(_ context.Context, e *domain.Experience) (*domain.Experience, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.experiences[e.ID] = *e
	out := *e
	return &out, nil
}

func (r *stubProfileRepo) UpdateExperience(_ context.Context, e *domain.Experience) (*domain.Experience, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.experiences[e.ID]
	if !ok || existing.UserID != e.UserID {
		return nil, domain.ErrExperienceNotFound
	}
	r.experiences[e.ID] = *e
	out := *e
	return &out, nil
}

func (r *stubProfileRepo) DeleteExperience(_ context.Context, userID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.experiences[id]
	if !ok || existing.UserID != userID {
		return domain.ErrExperienceNotFound
	}
	delete(r.experiences, id)
	return nil
}

func (r *stubProfileRepo) ListSkills(_ context.Context, userID uuid.UUID) ([]domain.Skill, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Skill
	for _, s := range r.skills {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *stubProfileRepo) CreateSkill(_ context.Context, s *domain.Skill) (*domain.Skill, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.skills[s.ID] = *s
	out := *s
	return &out, nil
}

func (r *stubProfileRepo) DeleteSkill(_ context.Context, userID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.skills[id]
	if !ok || existing.UserID != userID {
		return domain.ErrSkillNotFound
	}
	delete(r.skills, id)
	return nil
}
