package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/prn-tf/slowish/internal/domain"
	"github.com/prn-tf/slowish/internal/repository"
)

// MockContainerRepository is a mock implementation of repository.ContainerRepository.
type MockContainerRepository struct {
	containers map[string]*domain.Container // key: accountID/name
	nextID     int64
	createErr  error
}

func NewMockContainerRepository() *MockContainerRepository {
	return &MockContainerRepository{
		containers: make(map[string]*domain.Container),
		nextID:     1,
	}
}

func containerKey(accountID int64, name string) string {
	return fmt.Sprintf("%d/%s", accountID, name)
}

func (m *MockContainerRepository) CreateOrGet(ctx context.Context, accountID int64, name string) (*domain.Container, bool, error) {
	if m.createErr != nil {
		return nil, false, m.createErr
	}
	key := containerKey(accountID, name)
	if c, exists := m.containers[key]; exists {
		return c, false, nil
	}
	c := &domain.Container{
		ID:        m.nextID,
		AccountID: accountID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	m.nextID++
	m.containers[key] = c
	return c, true, nil
}

func (m *MockContainerRepository) GetByName(ctx context.Context, accountID int64, name string) (*domain.Container, error) {
	if c, exists := m.containers[containerKey(accountID, name)]; exists {
		return c, nil
	}
	return nil, domain.ErrContainerNotFound
}

func (m *MockContainerRepository) ListNames(ctx context.Context, accountID int64, filter repository.ListFilter) ([]string, error) {
	var names []string
	for _, c := range m.containers {
		if c.AccountID == accountID && matchesFilter(c.Name, filter) {
			names = append(names, c.Name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (m *MockContainerRepository) Delete(ctx context.Context, id int64) error {
	for key, c := range m.containers {
		if c.ID == id {
			delete(m.containers, key)
			return nil
		}
	}
	return domain.ErrContainerNotFound
}

// MockFileRepository is a mock implementation of repository.FileRepository.
type MockFileRepository struct {
	files     map[int64]map[string]*domain.File // containerID -> path
	nextID    int64
	createErr error
}

func NewMockFileRepository() *MockFileRepository {
	return &MockFileRepository{
		files:  make(map[int64]map[string]*domain.File),
		nextID: 1,
	}
}

func (m *MockFileRepository) CreateOrGet(ctx context.Context, containerID int64, path string) (*domain.File, bool, error) {
	if m.createErr != nil {
		return nil, false, m.createErr
	}
	if m.files[containerID] == nil {
		m.files[containerID] = make(map[string]*domain.File)
	}
	if f, exists := m.files[containerID][path]; exists {
		return f, false, nil
	}
	f := &domain.File{
		ID:          m.nextID,
		ContainerID: containerID,
		Path:        path,
		CreatedAt:   time.Now().UTC(),
	}
	m.nextID++
	m.files[containerID][path] = f
	return f, true, nil
}

func (m *MockFileRepository) GetByPath(ctx context.Context, containerID int64, path string) (*domain.File, error) {
	if f, exists := m.files[containerID][path]; exists {
		return f, nil
	}
	return nil, domain.ErrFileNotFound
}

func (m *MockFileRepository) ListPaths(ctx context.Context, containerID int64, filter repository.ListFilter) ([]string, error) {
	var paths []string
	for path := range m.files[containerID] {
		if matchesFilter(path, filter) {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// matchesFilter applies the conjunctive marker/end_marker/prefix
// semantics the repositories implement in SQL.
func matchesFilter(name string, filter repository.ListFilter) bool {
	if filter.Marker != "" && name <= filter.Marker {
		return false
	}
	if filter.EndMarker != "" && name >= filter.EndMarker {
		return false
	}
	if filter.Prefix != "" && !strings.HasPrefix(name, filter.Prefix) {
		return false
	}
	return true
}

// =============================================================================
// Tests
// =============================================================================

func TestContainerService_PutContainer(t *testing.T) {
	tests := []struct {
		name    string
		input   PutContainerInput
		wantErr error
	}{
		{
			name:    "success",
			input:   PutContainerInput{AccountID: 1, Name: "documents"},
			wantErr: nil,
		},
		{
			name:    "name at maximum length",
			input:   PutContainerInput{AccountID: 1, Name: strings.Repeat("a", 255)},
			wantErr: nil,
		},
		{
			name:    "name too long",
			input:   PutContainerInput{AccountID: 1, Name: strings.Repeat("a", 256)},
			wantErr: domain.ErrContainerNameLength,
		},
		{
			name:    "empty name",
			input:   PutContainerInput{AccountID: 1, Name: ""},
			wantErr: domain.ErrContainerNameLength,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewContainerService(NewMockContainerRepository(), NewMockFileRepository(), zerolog.Nop())

			output, err := svc.PutContainer(context.Background(), tt.input)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected error %v, got %v", tt.wantErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !output.Created {
				t.Error("expected Created=true on first put")
			}
			if output.Container.Name != tt.input.Name {
				t.Errorf("expected name %s, got %s", tt.input.Name, output.Container.Name)
			}
		})
	}
}

// Repeating a PUT succeeds and reports the container as pre-existing.
func TestContainerService_PutContainer_Idempotent(t *testing.T) {
	svc := NewContainerService(NewMockContainerRepository(), NewMockFileRepository(), zerolog.Nop())
	input := PutContainerInput{AccountID: 1, Name: "documents"}

	first, err := svc.PutContainer(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.PutContainer(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !first.Created {
		t.Error("expected first put to create")
	}
	if second.Created {
		t.Error("expected second put to find the existing container")
	}
	if first.Container.ID != second.Container.ID {
		t.Error("expected both puts to resolve to the same container")
	}
}

func TestContainerService_GetContainer_NotFound(t *testing.T) {
	svc := NewContainerService(NewMockContainerRepository(), NewMockFileRepository(), zerolog.Nop())

	_, err := svc.GetContainer(context.Background(), GetContainerInput{AccountID: 1, Name: "missing"})
	if !errors.Is(err, domain.ErrContainerNotFound) {
		t.Errorf("expected ErrContainerNotFound, got %v", err)
	}
}

func TestContainerService_ListFiles(t *testing.T) {
	containerRepo := NewMockContainerRepository()
	fileRepo := NewMockFileRepository()
	svc := NewContainerService(containerRepo, fileRepo, zerolog.Nop())

	container, _, err := containerRepo.CreateOrGet(context.Background(), 1, "documents")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, path := range []string{"reports/q2.txt", "notes.txt", "reports/q1.txt"} {
		if _, _, err := fileRepo.CreateOrGet(context.Background(), container.ID, path); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	output, err := svc.ListFiles(context.Background(), ListFilesInput{AccountID: 1, Container: "documents"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantPaths := []string{"notes.txt", "reports/q1.txt", "reports/q2.txt"}
	if len(output.Entries) != len(wantPaths) {
		t.Fatalf("expected %d entries, got %d", len(wantPaths), len(output.Entries))
	}
	for i, entry := range output.Entries {
		if entry.Name != wantPaths[i] {
			t.Errorf("entry %d: expected %s, got %s", i, wantPaths[i], entry.Name)
		}
		if entry.Bytes != 0 {
			t.Errorf("entry %d: expected zero bytes, got %d", i, entry.Bytes)
		}
		if entry.ContentType != domain.FileContentType {
			t.Errorf("entry %d: expected %s, got %s", i, domain.FileContentType, entry.ContentType)
		}
	}
}

func TestContainerService_ListFiles_ContainerNotFound(t *testing.T) {
	svc := NewContainerService(NewMockContainerRepository(), NewMockFileRepository(), zerolog.Nop())

	_, err := svc.ListFiles(context.Background(), ListFilesInput{AccountID: 1, Container: "missing"})
	if !errors.Is(err, domain.ErrContainerNotFound) {
		t.Errorf("expected ErrContainerNotFound, got %v", err)
	}
}
