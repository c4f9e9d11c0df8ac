package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edu-portal-api/internal/models"
	appErrors "github.com/noah-isme/edu-portal-api/pkg/errors"
	"github.com/noah-isme/edu-portal-api/pkg/export"
)

type rosterStudentsMock struct {
	students []models.StudentRecord
}

func (m *rosterStudentsMock) FindByUID(ctx context.Context, uid string) (*models.StudentRecord, error) {
	for i := range m.students {
		if m.students[i].UID == uid {
			return &m.students[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *rosterStudentsMock) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentRecord, int, error) {
	return m.students, len(m.students), nil
}

type rosterAdminsMock struct{}

func (m *rosterAdminsMock) List(ctx context.Context, filter models.AdminFilter) ([]models.AdminRecord, int, error) {
	return nil, 0, nil
}

type rosterExporterMock struct {
	datasets []export.Dataset
}

func (m *rosterExporterMock) Render(data export.Dataset, title string) ([]byte, error) {
	m.datasets = append(m.datasets, data)
	return []byte("%PDF-1.4"), nil
}

func TestExportRosterDisabled(t *testing.T) {
	// Wired the same way as with the export flag off: the interface value
	// itself is nil, never a typed nil pointer boxed into it.
	var exporter RosterExporter
	svc := NewAdminService(&rosterStudentsMock{}, &rosterAdminsMock{}, exporter, nil)

	pdf, err := svc.ExportRoster(context.Background(), models.StudentFilter{})
	assert.Nil(t, pdf)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound))
}

func TestExportRoster(t *testing.T) {
	students := &rosterStudentsMock{students: []models.StudentRecord{{
		UID:            "stu-1",
		FullName:       "Aiko Tanaka",
		SchoolName:     "North High",
		Grade:          2,
		ApprovalStatus: models.ApprovalApproved,
		AccountStatus:  models.AccountActive,
	}}}
	exporter := &rosterExporterMock{}
	svc := NewAdminService(students, &rosterAdminsMock{}, exporter, nil)

	pdf, err := svc.ExportRoster(context.Background(), models.StudentFilter{})
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)

	require.Len(t, exporter.datasets, 1)
	require.Len(t, exporter.datasets[0].Rows, 1)
	assert.Equal(t, "Aiko Tanaka", exporter.datasets[0].Rows[0]["Name"])
	assert.Equal(t, "APPROVED", exporter.datasets[0].Rows[0]["Approval"])
}
