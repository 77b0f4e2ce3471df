package handler

import (
	"time"

	"socialise/backend/internal/models"
	"socialise/backend/internal/service"
)

// region --- DTOs ---

// UserSummary is the compact form of a user shown next to content.
type UserSummary struct {
	ID             uint    `json:"id" example:"1"`
	FirstName      string  `json:"first_name" example:"Ada"`
	LastName       string  `json:"last_name" example:"Lovelace"`
	DisplayPicture *string `json:"display_picture,omitempty" example:"ada.png"`
}

// ProfileResponse is a user's profile. Fields hidden by the owner are omitted
// for other viewers.
type ProfileResponse struct {
	UserSummary
	Email           string  `json:"email,omitempty" example:"ada@example.com"`
	BirthDay        *int    `json:"birth_day,omitempty" example:"10"`
	BirthMonth      *int    `json:"birth_month,omitempty" example:"12"`
	Hometown        *string `json:"hometown,omitempty" example:"London"`
	Occupation      *string `json:"occupation,omitempty" example:"Mathematician"`
	ShowDateOfBirth *bool   `json:"show_date_of_birth,omitempty"`
	ShowHometown    *bool   `json:"show_hometown,omitempty"`
	ShowOccupation  *bool   `json:"show_occupation,omitempty"`
}

// StatusResponse is the relationship between two users.
type StatusResponse struct {
	AreFriends      bool `json:"areFriends"`
	HasPendingFromA bool `json:"hasPendingFromA"`
	HasPendingFromB bool `json:"hasPendingFromB"`
}

// NotificationResponse is a notification with its sender resolved.
type NotificationResponse struct {
	ID               uint                    `json:"id" example:"1"`
	Type             models.NotificationType `json:"type" example:"friendRequest"`
	IsRead           bool                    `json:"is_read"`
	CreatedAt        time.Time               `json:"created_at"`
	Sender           UserSummary             `json:"sender"`
	PostID           *uint                   `json:"post_id,omitempty"`
	CommentID        *uint                   `json:"comment_id,omitempty"`
	DisplayPictureID *uint                   `json:"display_picture_id,omitempty"`
}

// CommentResponse is a comment with its author and likes.
type CommentResponse struct {
	ID        uint          `json:"id" example:"1"`
	Content   string        `json:"content" example:"Nice!"`
	CreatedAt time.Time     `json:"created_at"`
	Author    UserSummary   `json:"author"`
	Likes     []UserSummary `json:"likes"`
}

// PostResponse is a post with its author, likes and comments.
type PostResponse struct {
	ID        uint              `json:"id" example:"1"`
	Content   string            `json:"content" example:"Hello world"`
	CreatedAt time.Time         `json:"created_at"`
	Author    UserSummary       `json:"author"`
	Likes     []UserSummary     `json:"likes"`
	Comments  []CommentResponse `json:"comments"`
}

// DisplayPictureResponse is a display picture with its likes and comments.
type DisplayPictureResponse struct {
	ID         uint              `json:"id" example:"1"`
	UserID     uint              `json:"user_id" example:"1"`
	Filename   string            `json:"filename" example:"ada.png"`
	UploadedAt time.Time         `json:"uploaded_at"`
	Likes      []UserSummary     `json:"likes"`
	Comments   []CommentResponse `json:"comments"`
}

// endregion

func buildUserSummary(u models.User) UserSummary {
	s := UserSummary{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName}
	if u.DisplayPicture != nil {
		s.DisplayPicture = &u.DisplayPicture.Filename
	}
	return s
}

func buildUserSummaries(users []models.User) []UserSummary {
	out := make([]UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, buildUserSummary(u))
	}
	return out
}

// buildProfileResponse masks the fields the owner chose to hide unless the
// viewer is the owner.
func buildProfileResponse(u models.User, viewerID uint) ProfileResponse {
	resp := ProfileResponse{UserSummary: buildUserSummary(u)}
	self := viewerID == u.ID

	if self || u.ShowDateOfBirth {
		resp.BirthDay, resp.BirthMonth = &u.BirthDay, &u.BirthMonth
	}
	if self || u.ShowHometown {
		resp.Hometown = &u.Hometown
	}
	if self || u.ShowOccupation {
		resp.Occupation = &u.Occupation
	}
	if self {
		resp.Email = u.Email
		resp.ShowDateOfBirth = &u.ShowDateOfBirth
		resp.ShowHometown = &u.ShowHometown
		resp.ShowOccupation = &u.ShowOccupation
	}
	return resp
}

func buildStatusResponse(st service.Status) StatusResponse {
	return StatusResponse{
		AreFriends:      st.AreFriends,
		HasPendingFromA: st.HasPendingFromA,
		HasPendingFromB: st.HasPendingFromB,
	}
}

func buildNotificationResponse(n models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:               n.ID,
		Type:             n.Type,
		IsRead:           n.IsRead,
		CreatedAt:        n.CreatedAt,
		Sender:           buildUserSummary(n.Sender),
		PostID:           n.PostID,
		CommentID:        n.CommentID,
		DisplayPictureID: n.DisplayPictureID,
	}
}

func buildCommentResponses(comments []models.Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for _, cm := range comments {
		out = append(out, buildCommentResponse(cm))
	}
	return out
}

func buildCommentResponse(cm models.Comment) CommentResponse {
	return CommentResponse{
		ID:        cm.ID,
		Content:   cm.Content,
		CreatedAt: cm.CreatedAt,
		Author:    buildUserSummary(cm.Author),
		Likes:     buildUserSummaries(cm.Likes),
	}
}

func buildPostResponse(p models.Post) PostResponse {
	return PostResponse{
		ID:        p.ID,
		Content:   p.Content,
		CreatedAt: p.CreatedAt,
		Author:    buildUserSummary(p.Author),
		Likes:     buildUserSummaries(p.Likes),
		Comments:  buildCommentResponses(p.Comments),
	}
}

func buildDisplayPictureResponse(d models.DisplayPicture) DisplayPictureResponse {
	return DisplayPictureResponse{
		ID:         d.ID,
		UserID:     d.UserID,
		Filename:   d.Filename,
		UploadedAt: d.UploadedAt,
		Likes:      buildUserSummaries(d.Likes),
		Comments:   buildCommentResponses(d.Comments),
	}
}
