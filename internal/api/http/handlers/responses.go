package handlers

import (
	"time"

	"github.com/spec-kit/staffing-board/internal/api/dto"
	"github.com/spec-kit/staffing-board/internal/domain"
	"github.com/spec-kit/staffing-board/internal/service"
)

func userResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Phone:     user.Phone,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}

func sessionResponse(session *service.Session) map[string]any {
	return map[string]any{
		"user": userResponse(session.User),
		"auth": dto.AuthResponse{Token: session.Token, ExpiresAt: session.ExpiresAt},
	}
}

func invitationStatus(inv *domain.Invitation, now time.Time) string {
	switch {
	case inv.Used:
		return "used"
	case !now.Before(inv.ExpiresAt):
		return "expired"
	default:
		return "pending"
	}
}

func invitationResponse(inv *domain.Invitation, now time.Time) dto.InvitationResponse {
	return dto.InvitationResponse{
		ID:        inv.ID,
		Email:     inv.Email,
		Role:      inv.Role,
		InvitedBy: inv.InvitedBy,
		Used:      inv.Used,
		Status:    invitationStatus(inv, now),
		ExpiresAt: inv.ExpiresAt,
		CreatedAt: inv.CreatedAt,
	}
}

func issuedInvitationResponse(issued *service.IssuedInvitation, now time.Time) dto.IssuedInvitationResponse {
	return dto.IssuedInvitationResponse{
		Invitation: invitationResponse(issued.Invitation, now),
		Token:      issued.Token,
		InviteLink: issued.InviteLink,
	}
}

func applicationResponse(app *domain.Application) dto.ApplicationResponse {
	status := app.CanonicalStatus()
	notes := make([]dto.NoteResponse, 0, len(app.Notes))
	for _, note := range app.Notes {
		notes = append(notes, noteResponse(&note))
	}
	return dto.ApplicationResponse{
		ID:              app.ID,
		JobID:           app.JobID,
		ApplicantID:     app.ApplicantID,
		FirstName:       app.FirstName,
		LastName:        app.LastName,
		Email:           app.Email,
		Phone:           app.Phone,
		LicenseType:     app.LicenseType,
		LicenseState:    app.LicenseState,
		YearsExperience: app.YearsExperience,
		HasResume:       app.ResumeKey != "",
		Status:          status,
		StatusLabel:     status.Label(),
		Notes:           notes,
		LastUpdatedBy:   app.LastUpdatedBy,
		LastUpdatedAt:   app.LastUpdatedAt,
		CreatedAt:       app.CreatedAt,
	}
}

func applicationResponses(apps []domain.Application) []dto.ApplicationResponse {
	out := make([]dto.ApplicationResponse, 0, len(apps))
	for i := range apps {
		out = append(out, applicationResponse(&apps[i]))
	}
	return out
}

func noteResponse(note *domain.Note) dto.NoteResponse {
	return dto.NoteResponse{
		ID:        note.ID,
		Text:      note.Text,
		AuthorID:  note.AuthorID,
		CreatedAt: note.CreatedAt,
	}
}

func statusOptions() []dto.StatusOption {
	statuses := domain.AllPipelineStatuses()
	out := make([]dto.StatusOption, 0, len(statuses))
	for _, status := range statuses {
		out = append(out, dto.StatusOption{Value: status, Label: status.Label()})
	}
	return out
}

func groupedResponse(grouped *service.GroupedApplications) dto.GroupedApplicationsResponse {
	buckets := make(map[domain.PipelineStatus][]dto.ApplicationResponse, len(grouped.Buckets))
	for status, apps := range grouped.Buckets {
		buckets[status] = applicationResponses(apps)
	}
	return dto.GroupedApplicationsResponse{
		Statuses:     statusOptions(),
		Buckets:      buckets,
		Applications: applicationResponses(grouped.Applications),
		Total:        grouped.Total,
	}
}

func statusChangeResponses(changes []domain.StatusChange) []dto.StatusChangeResponse {
	out := make([]dto.StatusChangeResponse, 0, len(changes))
	for _, change := range changes {
		out = append(out, dto.StatusChangeResponse{
			ID:         change.ID,
			FromStatus: change.FromStatus,
			ToStatus:   change.ToStatus,
			ChangedBy:  change.ChangedBy,
			CreatedAt:  change.CreatedAt,
		})
	}
	return out
}

func jobResponses(jobs []domain.Job) []dto.JobResponse {
	out := make([]dto.JobResponse, 0, len(jobs))
	for i := range jobs {
		out = append(out, jobResponse(&jobs[i]))
	}
	return out
}

func jobResponse(job *domain.Job) dto.JobResponse {
	return dto.JobResponse{
		ID:          job.ID,
		Title:       job.Title,
		Description: job.Description,
		Location:    job.Location,
		JobType:     job.JobType,
		Category:    job.Category,
		Specialty:   job.Specialty,
		PayRate:     job.PayRate,
		Company:     job.Company,
		CreatedBy:   job.CreatedBy,
		CreatedAt:   job.CreatedAt,
	}
}
