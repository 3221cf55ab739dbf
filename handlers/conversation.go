package handlers

import (
	"mime/multipart"
	"net/http"

	"concierge/models"
	"concierge/services/concierge"
	"concierge/services/listing"
	"concierge/services/storage"

	"github.com/gin-gonic/gin"
)

type ConversationHandler struct {
	Service *concierge.Service
}

type statusRequest[S ~string] struct {
	Status S `json:"status" binding:"required"`
}

type assigneeRequest struct {
	AssigneeID *string `json:"assigneeId"`
}

// ListConversationsHandler serves the inbox. Filters come from the query string;
// sort defaults to last_activity and dir to desc.
func (h *ConversationHandler) ListConversationsHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var filter listing.ConversationFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		badRequest(c, err)
		return
	}
	field := listing.SortField(c.DefaultQuery("sort", string(listing.SortLastActivity)))
	if !field.Valid() {
		badRequest(c, errUnknownSort(field))
		return
	}
	dir := listing.SortDirection(c.DefaultQuery("dir", string(listing.Desc)))
	if dir != listing.Asc && dir != listing.Desc {
		badRequest(c, errUnknownDirection(dir))
		return
	}

	rows, err := h.Service.ListConversations(c.Request.Context(), user, filter, field, dir)
	if err != nil {
		respondError(c, err, "list conversations")
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *ConversationHandler) GetConversationHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	conv, err := h.Service.GetConversation(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		respondError(c, err, "fetch conversation")
		return
	}
	c.JSON(http.StatusOK, conv)
}

func (h *ConversationHandler) TransitionHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req statusRequest[models.ConversationStatus]
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	conv, err := h.Service.TransitionConversation(c.Request.Context(), user, c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err, "update conversation status")
		return
	}
	c.JSON(http.StatusOK, conv)
}

func (h *ConversationHandler) AssignHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req assigneeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	conv, err := h.Service.AssignConversation(c.Request.Context(), user, c.Param("id"), req.AssigneeID)
	if err != nil {
		respondError(c, err, "assign conversation")
		return
	}
	c.JSON(http.StatusOK, conv)
}

// AddCommunicationHandler appends a message. A multipart body may carry files under
// "attachments"; they are stored first and removed again if the message is refused.
func (h *ConversationHandler) AddCommunicationHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	id := c.Param("id")

	var req concierge.CommunicationInput
	var uploaded []models.Attachment
	if c.ContentType() == gin.MIMEMultipartPOSTForm {
		if err := c.ShouldBind(&req); err != nil {
			badRequest(c, err)
			return
		}
		uploads, closeAll, err := formUploads(c, "attachments")
		if err != nil {
			badRequest(c, err)
			return
		}
		uploaded, err = h.Service.UploadAttachments(ctx, user, id, uploads)
		closeAll()
		if err != nil {
			respondError(c, err, "upload attachments")
			return
		}
		req.Attachments = append(req.Attachments, uploaded...)
	} else if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	msg, err := h.Service.AddCommunication(ctx, user, id, req)
	if err != nil {
		h.Service.DiscardAttachments(ctx, uploaded)
		respondError(c, err, "add communication")
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// formUploads opens every file under field. The returned func closes them.
func formUploads(c *gin.Context, field string) ([]storage.Upload, func(), error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, func() {}, err
	}
	var (
		uploads []storage.Upload
		opened  []multipart.File
	)
	closeAll := func() {
		for _, f := range opened {
			f.Close()
		}
	}
	for _, fh := range form.File[field] {
		f, err := fh.Open()
		if err != nil {
			closeAll()
			return nil, func() {}, err
		}
		opened = append(opened, f)
		uploads = append(uploads, storage.Upload{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Body:        f,
		})
	}
	return uploads, closeAll, nil
}

func (h *ConversationHandler) AddNoteHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	note, err := h.Service.AddInternalNote(c.Request.Context(), user, c.Param("id"), req.Content)
	if err != nil {
		respondError(c, err, "add note")
		return
	}
	c.JSON(http.StatusCreated, note)
}

func (h *ConversationHandler) MarkReadHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.Service.MarkConversationRead(c.Request.Context(), user, c.Param("id")); err != nil {
		respondError(c, err, "mark conversation read")
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateBookingHandler converts the conversation. The body is optional.
func (h *ConversationHandler) CreateBookingHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req concierge.BookingInput
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}
	b, err := h.Service.CreateBookingFromConversation(c.Request.Context(), user, c.Param("id"), req)
	if err != nil {
		respondError(c, err, "create booking")
		return
	}
	c.JSON(http.StatusCreated, b)
}
