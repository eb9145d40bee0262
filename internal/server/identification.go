package server

import (
	"context"
	"net/http"

	"worklane/internal/identification"
	"worklane/pkg/types"
)

const maxIdentificationUploadBytes = 32 << 20

// currentVariant loads the signed-in user and resolves their account
// variant. A false return means the caller was redirected to onboarding.
func (s *Service) currentVariant(ctx context.Context, w http.ResponseWriter, r *http.Request) (*types.User, types.AccountVariant, bool) {
	userID, err := s.userIDFromContext(ctx)
	if err != nil {
		s.logger.WithError(err).Error("ctx doesn't contain user")
		s.internalServerError(w)
		return nil, types.AccountVariant{}, false
	}

	user, err := s.userRepo.User(ctx, userID)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("failed to fetch user")
		s.internalServerError(w)
		return nil, types.AccountVariant{}, false
	}

	variant, ok := user.Variant()
	if !ok {
		http.Redirect(w, r, "/onboarding", http.StatusSeeOther)
		return nil, types.AccountVariant{}, false
	}

	return user, variant, true
}

func (s *Service) handleGetIdentification(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, variant, ok := s.currentVariant(ctx, w, r)
	if !ok {
		return
	}

	record, err := s.identification.Record(ctx, user.ID)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", user.ID).Error("failed to load identification record")
		s.internalServerError(w)
		return
	}

	data := s.identificationPageData(ctx, user, variant, record)
	data.Notice = r.URL.Query().Get("notice")
	data.Warning = r.URL.Query().Get("warning")
	data.Error = r.URL.Query().Get("error")

	if err := s.renderTemplate(w, r, "page.identification", data); err != nil {
		s.logger.WithError(err).Error("failed to render identification page")
		s.internalServerError(w)
		return
	}
}

// handlePostIdentification runs one identification submission: per-slot file
// inputs plus the staged deletions carried as delete_attachments values.
func (s *Service) handlePostIdentification(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, variant, ok := s.currentVariant(ctx, w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxIdentificationUploadBytes); err != nil {
		s.logger.WithError(err).Error("failed to parse identification form")
		s.renderIdentificationError(ctx, w, r, user, variant, "Your upload could not be read. Please try again.")
		return
	}

	newFiles := map[types.SlotName][]identification.File{}
	var closers []func()
	defer func() {
		for _, close := range closers {
			close()
		}
	}()

	for _, slot := range identification.RequiredSlots(variant) {
		headers := r.MultipartForm.File["files_"+string(slot)]
		for _, header := range headers {
			f, err := header.Open()
			if err != nil {
				s.logger.WithError(err).WithField("file", header.Filename).Error("failed to open uploaded file")
				s.renderIdentificationError(ctx, w, r, user, variant, "Your upload could not be read. Please try again.")
				return
			}
			closers = append(closers, func() { _ = f.Close() })

			newFiles[slot] = append(newFiles[slot], identification.File{
				Name:        header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Size:        header.Size,
				Content:     f,
			})
		}
	}

	deleteIDs := map[string]bool{}
	for _, id := range r.PostForm["delete_attachments"] {
		deleteIDs[id] = true
	}

	_, err := s.identification.Submit(ctx, user.ID, variant, newFiles, deleteIDs)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", user.ID).Error("identification submission failed")

		switch identification.KindOf(err) {
		case identification.KindValidation:
			s.renderIdentificationError(ctx, w, r, user, variant, err.Error())
		case identification.KindStatusTransition:
			// Documents were saved; only the review hand-off failed.
			s.redirectWithWarning(w, r, "/account/identification",
				"Your documents were saved, but we could not queue your account for review. Please submit again.")
		default:
			s.renderIdentificationError(ctx, w, r, user, variant,
				"Failed to save your identification documents. Please try again.")
		}
		return
	}

	s.redirectWithNotice(w, r, "/account/identification", "Documents submitted. Your account is now under review.")
}

func (s *Service) identificationPageData(ctx context.Context, user *types.User, variant types.AccountVariant, record *types.IdentificationRecord) *types.IdentificationPageData {
	data := &types.IdentificationPageData{
		BasePageData: types.BasePageData{Title: "Identification"},
		Status:       user.AccountStatus,
	}

	for _, slot := range identification.RequiredSlots(variant) {
		view := types.SlotView{Name: slot, Label: slot.Label()}
		for _, att := range record.Slot(slot) {
			url, err := s.attachments.DocumentURL(ctx, att)
			if err != nil {
				s.logger.WithError(err).WithField("attachment_id", att.ID).Warn("failed to presign attachment url")
			}
			view.Attachments = append(view.Attachments, types.AttachmentView{
				ID:            att.ID,
				FileName:      att.FileName,
				FileSizeBytes: att.FileSizeBytes,
				ContentType:   att.ContentType,
				URL:           url,
				UploadedAt:    att.UploadedAt,
			})
		}
		data.Slots = append(data.Slots, view)
	}

	for _, slot := range identification.MissingSlots(variant, record) {
		data.MissingSlots = append(data.MissingSlots, slot.Label())
	}

	return data
}

func (s *Service) renderIdentificationError(ctx context.Context, w http.ResponseWriter, r *http.Request, user *types.User, variant types.AccountVariant, msg string) {
	record, err := s.identification.Record(ctx, user.ID)
	if err != nil {
		s.logger.WithError(err).Error("failed to reload identification record for error page")
		s.internalServerError(w)
		return
	}

	data := s.identificationPageData(ctx, user, variant, record)
	data.Error = msg

	if err := s.renderTemplate(w, r, "page.identification", data); err != nil {
		s.logger.WithError(err).Error("failed to render identification page with error")
		s.internalServerError(w)
	}
}
