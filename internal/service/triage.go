package service

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"volunteer-connect/internal/logger"
)

type Volunteer struct {
	Name   string   `json:"name"`
	Avatar string   `json:"avatar,omitempty"`
	Rating float64  `json:"rating"`
	Skills []string `json:"skills"`
}

// VolunteerRequest is a volunteer's application to an organization's project.
type VolunteerRequest struct {
	ID             int       `json:"id"`
	Volunteer      Volunteer `json:"volunteer"`
	Project        string    `json:"project"`
	TimeCommitment string    `json:"timeCommitment"`
	Location       string    `json:"location"`
	RequestDate    string    `json:"requestDate"`
}

func (r VolunteerRequest) matches(q string) bool {
	if strings.Contains(strings.ToLower(r.Volunteer.Name), q) || strings.Contains(strings.ToLower(r.Project), q) {
		return true
	}
	for _, s := range r.Volunteer.Skills {
		if strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	return false
}

// Notice is the confirmation shown after a triage decision.
type Notice struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Variant     string `json:"variant,omitempty"`
}

// Board holds one organization's pending and approved requests.
type Board struct {
	mu       sync.Mutex
	pending  []VolunteerRequest
	approved []VolunteerRequest
	lastID   int
}

func NewBoard(seed []VolunteerRequest) *Board {
	b := &Board{}
	for _, r := range seed {
		b.lastID = max(b.lastID, r.ID)
	}
	b.pending = append(b.pending, seed...)
	return b
}

func (b *Board) Pending() []VolunteerRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.pending)
}

func (b *Board) Approved() []VolunteerRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.approved)
}

// Search returns pending requests whose volunteer name, project or skills
// contain q, case-insensitively. An empty q returns everything pending.
func (b *Board) Search(q string) []VolunteerRequest {
	q = strings.ToLower(strings.TrimSpace(q))
	b.mu.Lock()
	defer b.mu.Unlock()
	if q == "" {
		return slices.Clone(b.pending)
	}
	var out []VolunteerRequest
	for _, r := range b.pending {
		if r.matches(q) {
			out = append(out, r)
		}
	}
	return out
}

// Approve moves the pending request to the approved list. ok is false, and
// nothing changes, when id is not pending.
func (b *Board) Approve(id int) (Notice, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	r, ok := b.takeLocked(id)
	if !ok {
		return Notice{}, false
	}
	b.approved = append(b.approved, r)
	return Notice{
		Title:       "Request approved!",
		Description: fmt.Sprintf("You've approved %s for the %s project.", r.Volunteer.Name, r.Project),
	}, true
}

// Reject drops the pending request.
func (b *Board) Reject(id int) (Notice, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	r, ok := b.takeLocked(id)
	if !ok {
		return Notice{}, false
	}
	return Notice{
		Title:       "Request rejected",
		Description: fmt.Sprintf("You've declined the request from %s.", r.Volunteer.Name),
	}, true
}

// Add appends new pending requests, assigning fresh ids.
func (b *Board) Add(reqs ...VolunteerRequest) []VolunteerRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	added := make([]VolunteerRequest, 0, len(reqs))
	for _, r := range reqs {
		b.lastID++
		r.ID = b.lastID
		b.pending = append(b.pending, r)
		added = append(added, r)
	}
	return added
}

func (b *Board) takeLocked(id int) (VolunteerRequest, bool) {
	i := slices.IndexFunc(b.pending, func(r VolunteerRequest) bool { return r.ID == id })
	if i < 0 {
		return VolunteerRequest{}, false
	}
	r := b.pending[i]
	b.pending = slices.Delete(b.pending, i, i+1)
	return r, true
}

// AccountOwner is the board key for a signed-in account. Sessions that do
// not resolve to an account share the board keyed by the empty string.
func AccountOwner(id int) string {
	if id <= 0 {
		return ""
	}
	return "account:" + strconv.Itoa(id)
}

type boardEntry struct {
	board    *Board
	lastUsed time.Time
}

// TriageService hands out one in-memory board per account. Boards start from
// the demo requests, are dropped after sitting idle for the TTL and are lost
// on restart.
type TriageService struct {
	mu      sync.Mutex
	boards  map[string]*boardEntry
	seed    func() []VolunteerRequest
	idleTTL time.Duration
	now     func() time.Time
}

func NewTriageService(idleTTL time.Duration) *TriageService {
	return &TriageService{
		boards:  make(map[string]*boardEntry),
		seed:    SeedRequests,
		idleTTL: idleTTL,
		now:     time.Now,
	}
}

func (s *TriageService) Board(owner string) *Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.boards[owner]
	if !ok {
		e = &boardEntry{board: NewBoard(s.seed())}
		s.boards[owner] = e
	}
	e.lastUsed = s.now()
	return e.board
}

func (s *TriageService) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.boards)
}

// Sweep drops boards not used within the TTL and returns how many went.
func (s *TriageService) Sweep() int {
	cutoff := s.now().Add(-s.idleTTL)
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for owner, e := range s.boards {
		if e.lastUsed.Before(cutoff) {
			delete(s.boards, owner)
			n++
		}
	}
	return n
}

// RunJanitor sweeps idle boards every interval until ctx is done.
func (s *TriageService) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				logger.Info("triage.sweep", "removed", n)
			}
		}
	}
}

func SeedRequests() []VolunteerRequest {
	return []VolunteerRequest{
		{
			ID: 1,
			Volunteer: Volunteer{
				Name:   "Emily Chen",
				Avatar: "https://images.unsplash.com/photo-1494790108377-be9c29b29330?q=80&w=300",
				Rating: 4.8,
				Skills: []string{"Graphic Design", "Social Media"},
			},
			Project:        "Social Media Campaign",
			TimeCommitment: "10 hrs/week for 2 months",
			Location:       "Remote",
			RequestDate:    "May 10, 2025",
		},
		{
			ID: 2,
			Volunteer: Volunteer{
				Name:   "Michael Rodriguez",
				Avatar: "https://images.unsplash.com/photo-1500648767791-00dcc994a43e?q=80&w=300",
				Rating: 4.5,
				Skills: []string{"Web Development", "Database Management"},
			},
			Project:        "Website Redesign",
			TimeCommitment: "15 hrs/week for 6 weeks",
			Location:       "Hybrid",
			RequestDate:    "May 12, 2025",
		},
		{
			ID: 3,
			Volunteer: Volunteer{
				Name:   "Sarah Johnson",
				Avatar: "https://images.unsplash.com/photo-1567532939604-b6b5b0db2604?q=80&w=300",
				Rating: 5.0,
				Skills: []string{"Event Planning", "Fundraising"},
			},
			Project:        "Summer Fundraiser",
			TimeCommitment: "20 hrs/week for 3 weeks",
			Location:       "In-person",
			RequestDate:    "May 15, 2025",
		},
	}
}
