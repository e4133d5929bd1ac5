// Package memstore holds in-memory repositories and an attachment store.
// They back the service and handler tests and mirror the SQL repositories'
// filtering and ordering.
package memstore

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"imc-punching/internal/adapters/persistence/models"
	"imc-punching/internal/adapters/persistence/repositories"
	"imc-punching/internal/adapters/storage"
	"imc-punching/internal/core/domain"

	"gorm.io/gorm"
)

// Store is an in-memory database shared by the repositories below
type Store struct {
	mu        sync.Mutex
	users     map[string]models.User
	customers []models.Customer
	punches   map[uint]models.PunchRecord
	nextID    uint
}

// New creates an empty store
func New() *Store {
	return &Store{
		users:   make(map[string]models.User),
		punches: make(map[uint]models.PunchRecord),
		nextID:  1,
	}
}

// AddUser inserts or replaces an account
func (s *Store) AddUser(u models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

// AddCustomer inserts a customer
func (s *Store) AddCustomer(clientID, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers = append(s.customers, models.Customer{
		ID:       uint(len(s.customers) + 1),
		Name:     name,
		ClientID: clientID,
	})
}

// InsertLegacy stores a punch as written by the older back office, with
// no status. It returns the assigned ID.
func (s *Store) InsertLegacy(rec models.PunchRecord) uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.ID = s.nextID
	s.nextID++
	rec.Status = ""
	s.punches[rec.ID] = rec
	return rec.ID
}

// Punch returns a copy of a stored punch
func (s *Store) Punch(id uint) (models.PunchRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.punches[id]
	return p, ok
}

// PunchCount returns the number of stored punches
func (s *Store) PunchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.punches)
}

// Users returns a UserRepository over the store
func (s *Store) Users() repositories.UserRepository { return userRepo{s} }

// Customers returns a CustomerRepository over the store
func (s *Store) Customers() repositories.CustomerRepository { return customerRepo{s} }

// Punches returns a PunchRepository over the store
func (s *Store) Punches() repositories.PunchRepository { return punchRepo{s} }

type userRepo struct{ s *Store }

func (r userRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (r userRepo) List(_ context.Context) ([]*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*models.User, 0, len(r.s.users))
	for id := range r.s.users {
		u := r.s.users[id]
		out = append(out, &u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r userRepo) UpdatePassword(_ context.Context, id, hash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok {
		u.Password = hash
		r.s.users[id] = u
	}
	return nil
}

type customerRepo struct{ s *Store }

func (r customerRepo) ListByClient(_ context.Context, clientID string) ([]*models.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*models.Customer{}
	for i := range r.s.customers {
		if r.s.customers[i].ClientID == clientID {
			c := r.s.customers[i]
			out = append(out, &c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type punchRepo struct{ s *Store }

func isPending(p *models.PunchRecord) bool {
	return p.Status == "" || p.Status == domain.PunchStatusPending
}

func (r punchRepo) Create(_ context.Context, record *models.PunchRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	record.ID = r.s.nextID
	r.s.nextID++
	if record.Status == "" {
		record.Status = domain.PunchStatusPending
	}
	now := time.Now().UTC()
	record.CreatedAt, record.UpdatedAt = now, now
	r.s.punches[record.ID] = *record
	return nil
}

func (r punchRepo) GetByID(_ context.Context, id uint) (*models.PunchRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.get(id)
}

func (r punchRepo) get(id uint) (*models.PunchRecord, error) {
	p, ok := r.s.punches[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	_ = p.AfterFind(nil)
	return &p, nil
}

func (r punchRepo) CompletePunchOut(_ context.Context, id uint, update models.PunchOutUpdate) (*models.PunchRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.punches[id]
	if !ok || !isPending(&p) {
		return nil, repositories.ErrNotPending
	}

	out := models.NewTimestamp(update.PunchOutTime)
	date := update.PunchOutDate
	spent := models.Interval{Duration: update.TotalTimeSpent}
	p.PunchOutTime = &out
	p.PunchOutLocation = update.PunchOutLocation
	p.PunchOutDate = &date
	p.TotalTimeSpent = &spent
	p.Status = domain.PunchStatusCompleted
	if update.Photo != nil {
		p.PhotoFilename = update.Photo.Reference
		p.PhotoURL = update.Photo.URL
	}
	p.UpdatedAt = time.Now().UTC()
	r.s.punches[id] = p

	return r.get(id)
}

func (r punchRepo) filter(keep func(*models.PunchRecord) bool) []*models.PunchRecord {
	out := []*models.PunchRecord{}
	for id := range r.s.punches {
		p, _ := r.get(id)
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func byInTimeDesc(out []*models.PunchRecord) {
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PunchInTime.After(out[j].PunchInTime.Time)
	})
}

func (r punchRepo) ListPending(_ context.Context, clientID, username string) ([]*models.PunchRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := r.filter(func(p *models.PunchRecord) bool {
		return p.ClientID == clientID && p.Username == username && isPending(p)
	})
	byInTimeDesc(out)
	return out, nil
}

func (r punchRepo) ListCompleted(_ context.Context, clientID, username string, limit int) ([]*models.PunchRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := r.filter(func(p *models.PunchRecord) bool {
		return p.ClientID == clientID && p.Username == username && p.IsCompleted()
	})
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PunchOutTime.After(out[j].PunchOutTime.Time)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r punchRepo) ListByDate(_ context.Context, clientID string, date models.DateOnly) ([]*models.PunchRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := r.filter(func(p *models.PunchRecord) bool {
		return p.ClientID == clientID && p.PunchDate.String() == date.String()
	})
	byInTimeDesc(out)
	return out, nil
}

func (r punchRepo) ListSince(_ context.Context, clientID string, since models.DateOnly) ([]*models.PunchRecordWithUser, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	matched := r.filter(func(p *models.PunchRecord) bool {
		return p.ClientID == clientID && p.PunchDate.String() >= since.String()
	})
	sort.SliceStable(matched, func(i, j int) bool {
		di, dj := matched[i].PunchDate.String(), matched[j].PunchDate.String()
		if di != dj {
			return di > dj
		}
		return matched[i].PunchInTime.After(matched[j].PunchInTime.Time)
	})

	out := make([]*models.PunchRecordWithUser, 0, len(matched))
	for _, p := range matched {
		out = append(out, &models.PunchRecordWithUser{
			PunchRecord: *p,
			UserName:    r.s.users[p.Username].Name,
		})
	}
	return out, nil
}

func (r punchRepo) ListLocalPhotos(_ context.Context, localPrefix string) ([]*models.PunchRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := r.filter(func(p *models.PunchRecord) bool {
		return p.PhotoFilename != "" && (p.PhotoURL == "" || strings.HasPrefix(p.PhotoURL, localPrefix))
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r punchRepo) UpdatePhoto(_ context.Context, id uint, photo domain.Attachment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.punches[id]
	if !ok {
		return nil
	}
	p.PhotoFilename = photo.Reference
	p.PhotoURL = photo.URL
	r.s.punches[id] = p
	return nil
}

// Photos is an in-memory storage.Provider
type Photos struct {
	mu       sync.Mutex
	objects  map[string][]byte
	seq      int
	Deleted  []string
	StoreErr error
}

// NewPhotos creates an empty attachment store
func NewPhotos() *Photos {
	return &Photos{objects: make(map[string][]byte)}
}

// Store keeps the upload body under a generated reference
func (p *Photos) Store(_ context.Context, upload storage.Upload) (*domain.Attachment, error) {
	if p.StoreErr != nil {
		return nil, p.StoreErr
	}
	if upload.Body == nil {
		return nil, domain.ErrMissingPhoto
	}
	data, err := io.ReadAll(upload.Body)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.seq++
	ref := fmt.Sprintf("punch-mem-%d.jpg", p.seq)
	p.objects[ref] = data
	return &domain.Attachment{Reference: ref, URL: "mem://" + ref}, nil
}

// Delete removes a reference; missing references are ignored
func (p *Photos) Delete(_ context.Context, reference string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.objects, reference)
	p.Deleted = append(p.Deleted, reference)
	return nil
}

// Has reports whether a reference is currently stored
func (p *Photos) Has(reference string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.objects[reference]
	return ok
}

// Len returns the number of stored objects
func (p *Photos) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.objects)
}
