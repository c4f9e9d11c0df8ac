package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edu-portal-api/internal/models"
	appErrors "github.com/noah-isme/edu-portal-api/pkg/errors"
)

type parentDirMock struct {
	parents map[string]models.ParentRecord
}

func (m *parentDirMock) FindByUID(ctx context.Context, uid string) (*models.ParentRecord, error) {
	if p, ok := m.parents[uid]; ok {
		return &p, nil
	}
	return nil, sql.ErrNoRows
}

func (m *parentDirMock) UpdateStudentLinks(ctx context.Context, uid string, studentIDs []string) error {
	p, ok := m.parents[uid]
	if !ok {
		return sql.ErrNoRows
	}
	p.StudentIDs = studentIDs
	m.parents[uid] = p
	return nil
}

func (m *parentDirMock) Delete(ctx context.Context, uid string) error {
	if _, ok := m.parents[uid]; !ok {
		return sql.ErrNoRows
	}
	delete(m.parents, uid)
	return nil
}

type parentStudentsMock struct {
	students map[string]models.StudentRecord
}

func (m *parentStudentsMock) FindByUID(ctx context.Context, uid string) (*models.StudentRecord, error) {
	if s, ok := m.students[uid]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *parentStudentsMock) FindByID(ctx context.Context, id int64) (*models.StudentRecord, error) {
	for _, s := range m.students {
		if s.ID == id {
			student := s
			return &student, nil
		}
	}
	return nil, sql.ErrNoRows
}

type parentAssignmentsMock struct{}

func (m *parentAssignmentsMock) ListByStudent(ctx context.Context, studentUID string) ([]models.Assignment, error) {
	return []models.Assignment{{ID: "a1", StudentUID: studentUID}}, nil
}

type parentSchedulesMock struct{}

func (m *parentSchedulesMock) ListByStudent(ctx context.Context, studentUID string) ([]models.Schedule, error) {
	return []models.Schedule{{ID: "s1", StudentUID: studentUID}}, nil
}

func newParentFixture() (*ParentService, *parentDirMock) {
	parents := &parentDirMock{parents: map[string]models.ParentRecord{
		"par-1": {UID: "par-1", StudentIDs: []string{"stu-1", "42", "stu-gone"}},
	}}
	students := &parentStudentsMock{students: map[string]models.StudentRecord{
		"stu-1":      {UID: "stu-1", ID: 7},
		"stu-by-id":  {UID: "stu-by-id", ID: 42},
		"stu-other":  {UID: "stu-other", ID: 99},
		"stu-hidden": {UID: "stu-hidden", ID: 100},
	}}
	return NewParentService(parents, students, &parentAssignmentsMock{}, &parentSchedulesMock{}, nil), parents
}

func TestLinkedStudentsSkipsDanglingRefs(t *testing.T) {
	svc, _ := newParentFixture()

	students, err := svc.LinkedStudents(context.Background(), "par-1")
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, "stu-1", students[0].UID)
	assert.Equal(t, "stu-by-id", students[1].UID)
}

func TestStudentViewLinkedByNumericID(t *testing.T) {
	svc, _ := newParentFixture()

	view, err := svc.StudentView(context.Background(), "par-1", "42")
	require.NoError(t, err)
	assert.Equal(t, "stu-by-id", view.Student.UID)
	assert.Len(t, view.Assignments, 1)
	assert.Len(t, view.Schedules, 1)
}

func TestStudentViewUnlinkedReadsAsMissing(t *testing.T) {
	svc, _ := newParentFixture()

	// An existing but unlinked student and a nonexistent one answer the
	// same way.
	_, errUnlinked := svc.StudentView(context.Background(), "par-1", "stu-other")
	require.Error(t, errUnlinked)
	assert.True(t, appErrors.HasCode(errUnlinked, appErrors.ErrNotFound))

	_, errMissing := svc.StudentView(context.Background(), "par-1", "stu-nope")
	require.Error(t, errMissing)
	assert.True(t, appErrors.HasCode(errMissing, appErrors.ErrNotFound))

	assert.Equal(t, appErrors.FromError(errUnlinked).Message, appErrors.FromError(errMissing).Message)
}

func TestUpdateStudentLinks(t *testing.T) {
	svc, parents := newParentFixture()

	parent, err := svc.UpdateStudentLinks(context.Background(), "par-1", []string{"stu-1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"stu-1"}, []string(parent.StudentIDs))
	assert.Equal(t, []string{"stu-1"}, []string(parents.parents["par-1"].StudentIDs))
}

func TestParentWithdraw(t *testing.T) {
	svc, parents := newParentFixture()

	require.NoError(t, svc.Withdraw(context.Background(), "par-1"))
	assert.NotContains(t, parents.parents, "par-1")

	err := svc.Withdraw(context.Background(), "par-1")
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound))
}
