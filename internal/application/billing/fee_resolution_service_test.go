package billing

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/enrollment"
	"github.com/schoolerp/backend/internal/domain/fees"
	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func classAssignment(definitionID, classID uuid.UUID) fees.FeeAssignment {
	return fees.FeeAssignment{
		BaseEntity:      shared.NewBaseEntity(),
		FeeDefinitionID: definitionID,
		Target:          fees.TargetClass,
		ClassID:         &classID,
	}
}

func stopAssignment(definitionID, stopID uuid.UUID) fees.FeeAssignment {
	return fees.FeeAssignment{
		BaseEntity:      shared.NewBaseEntity(),
		FeeDefinitionID: definitionID,
		Target:          fees.TargetTransportStop,
		TransportStopID: &stopID,
	}
}

func dayEnrollment(classID uuid.UUID) *enrollment.Enrollment {
	return &enrollment.Enrollment{
		BaseEntity:        shared.NewBaseEntity(),
		StudentID:         uuid.New(),
		ClassID:           &classID,
		AcademicYearID:    uuid.New(),
		AdmissionType:     enrollment.AdmissionDay,
		PaymentPreference: enrollment.PreferenceInstallments,
	}
}

func TestFeeResolutionService_ResolveApplicableFees_ClassOnly(t *testing.T) {
	assignmentRepo := new(mockFeeAssignmentRepository)
	service := NewFeeResolutionService(assignmentRepo, zap.NewNop())

	classID := uuid.New()
	enr := dayEnrollment(classID)
	expected := []fees.FeeAssignment{classAssignment(uuid.New(), classID)}

	assignmentRepo.On("FindActiveForClass", mock.Anything, classID, mock.AnythingOfType("time.Time")).
		Return(expected, nil)

	resolved, err := service.ResolveApplicableFees(context.Background(), enr)

	assert.NoError(t, err)
	assert.Len(t, resolved, 1)
	assert.Equal(t, expected[0].ID, resolved[0].ID)
	assignmentRepo.AssertNotCalled(t, "FindForTransportStop", mock.Anything, mock.Anything)
}

func TestFeeResolutionService_ResolveApplicableFees_TransportAddsStopFees(t *testing.T) {
	assignmentRepo := new(mockFeeAssignmentRepository)
	service := NewFeeResolutionService(assignmentRepo, zap.NewNop())

	classID := uuid.New()
	stopID := uuid.New()
	enr := dayEnrollment(classID)
	enr.AdmissionType = enrollment.AdmissionTransport
	enr.Administration = &enrollment.Administration{PickupStopID: &stopID}

	classFees := []fees.FeeAssignment{classAssignment(uuid.New(), classID)}
	stopFees := []fees.FeeAssignment{stopAssignment(uuid.New(), stopID)}

	assignmentRepo.On("FindActiveForClass", mock.Anything, classID, mock.AnythingOfType("time.Time")).
		Return(classFees, nil)
	assignmentRepo.On("FindForTransportStop", mock.Anything, stopID).
		Return(stopFees, nil)

	resolved, err := service.ResolveApplicableFees(context.Background(), enr)

	assert.NoError(t, err)
	assert.Len(t, resolved, 2)
	assert.Equal(t, classFees[0].ID, resolved[0].ID)
	assert.Equal(t, stopFees[0].ID, resolved[1].ID)
}

func TestFeeResolutionService_ResolveApplicableFees_TransportWithoutStop(t *testing.T) {
	assignmentRepo := new(mockFeeAssignmentRepository)
	service := NewFeeResolutionService(assignmentRepo, zap.NewNop())

	classID := uuid.New()
	enr := dayEnrollment(classID)
	enr.AdmissionType = enrollment.AdmissionTransport // no administration record

	assignmentRepo.On("FindActiveForClass", mock.Anything, classID, mock.AnythingOfType("time.Time")).
		Return([]fees.FeeAssignment{}, nil)

	resolved, err := service.ResolveApplicableFees(context.Background(), enr)

	assert.NoError(t, err)
	assert.Empty(t, resolved)
	assignmentRepo.AssertNotCalled(t, "FindForTransportStop", mock.Anything, mock.Anything)
}

func TestFeeResolutionService_ResolveApplicableFees_NoClassNoStop(t *testing.T) {
	assignmentRepo := new(mockFeeAssignmentRepository)
	service := NewFeeResolutionService(assignmentRepo, zap.NewNop())

	enr := &enrollment.Enrollment{
		BaseEntity:        shared.NewBaseEntity(),
		StudentID:         uuid.New(),
		AcademicYearID:    uuid.New(),
		AdmissionType:     enrollment.AdmissionBoarding,
		PaymentPreference: enrollment.PreferenceFull,
	}

	resolved, err := service.ResolveApplicableFees(context.Background(), enr)

	assert.NoError(t, err)
	assert.Empty(t, resolved)
	assignmentRepo.AssertNotCalled(t, "FindActiveForClass", mock.Anything, mock.Anything, mock.Anything)
}

func TestFeeResolutionService_ResolveApplicableFees_RepositoryError(t *testing.T) {
	assignmentRepo := new(mockFeeAssignmentRepository)
	service := NewFeeResolutionService(assignmentRepo, zap.NewNop())

	classID := uuid.New()
	enr := dayEnrollment(classID)

	assignmentRepo.On("FindActiveForClass", mock.Anything, classID, mock.AnythingOfType("time.Time")).
		Return(nil, errors.New("connection refused"))

	resolved, err := service.ResolveApplicableFees(context.Background(), enr)

	assert.Error(t, err)
	assert.Nil(t, resolved)
}

func TestFeeResolutionService_ResolveApplicableFees_DuplicatesKept(t *testing.T) {
	assignmentRepo := new(mockFeeAssignmentRepository)
	service := NewFeeResolutionService(assignmentRepo, zap.NewNop())

	classID := uuid.New()
	stopID := uuid.New()
	definitionID := uuid.New()
	enr := dayEnrollment(classID)
	enr.AdmissionType = enrollment.AdmissionTransport
	enr.Administration = &enrollment.Administration{PickupStopID: &stopID}

	// Same fee definition reachable through both paths: two billable fees.
	assignmentRepo.On("FindActiveForClass", mock.Anything, classID, mock.AnythingOfType("time.Time")).
		Return([]fees.FeeAssignment{classAssignment(definitionID, classID)}, nil)
	assignmentRepo.On("FindForTransportStop", mock.Anything, stopID).
		Return([]fees.FeeAssignment{stopAssignment(definitionID, stopID)}, nil)

	resolved, err := service.ResolveApplicableFees(context.Background(), enr)

	assert.NoError(t, err)
	assert.Len(t, resolved, 2)
	assert.Equal(t, definitionID, resolved[0].FeeDefinitionID)
	assert.Equal(t, definitionID, resolved[1].FeeDefinitionID)
}
