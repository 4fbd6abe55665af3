// Package serializer assembles JSON views from database rows. Fields that
// depend on who is asking (is_owner, like_id, following_id) are computed
// here from an explicitly passed requester, never from ambient state.
package serializer

import (
	"github.com/google/uuid"

	"moments/model"
)

// Post builds a post view. likeID is the requester's like on this post, or
// nil when anonymous or not liked.
func Post(row *models.PostRow, requester *models.Requester, likeID *uuid.UUID) models.PostView {
	return models.PostView{
		ID:            row.ID,
		Owner:         row.OwnerUsername,
		IsOwner:       requester.IsOwner(row.OwnerID),
		ProfileID:     row.ProfileID,
		ProfileImage:  row.ProfileImage,
		Title:         row.Title,
		Content:       row.Content,
		Image:         row.Image,
		ImageFilter:   row.ImageFilter,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
		LikeID:        likeID,
		CommentsCount: row.CommentsCount,
		LikesCount:    row.LikesCount,
	}
}

// Posts builds views for a listing. likeIDs maps post id to the requester's
// like id; at most one entry per post can exist by the like uniqueness
// constraint.
func Posts(rows []models.PostRow, requester *models.Requester, likeIDs map[uuid.UUID]uuid.UUID) []models.PostView {
	views := make([]models.PostView, len(rows))
	for i := range rows {
		var likeID *uuid.UUID
		if id, ok := likeIDs[rows[i].ID]; ok {
			likeID = &id
		}
		views[i] = Post(&rows[i], requester, likeID)
	}
	return views
}

// Profile builds a profile view. followingID is the requester's follow edge
// to the profile owner, or nil.
func Profile(row *models.ProfileRow, requester *models.Requester, followingID *uuid.UUID) models.ProfileView {
	return models.ProfileView{
		ID:             row.ID,
		Owner:          row.OwnerUsername,
		IsOwner:        requester.IsOwner(row.OwnerID),
		Name:           row.Name,
		Content:        row.Content,
		Image:          row.Image,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
		PostsCount:     row.PostsCount,
		FollowersCount: row.FollowersCount,
		FollowingCount: row.FollowingCount,
		FollowingID:    followingID,
	}
}

// Profiles builds views for a listing. followingIDs maps profile owner id to
// the requester's follow edge id.
func Profiles(rows []models.ProfileRow, requester *models.Requester, followingIDs map[uuid.UUID]uuid.UUID) []models.ProfileView {
	views := make([]models.ProfileView, len(rows))
	for i := range rows {
		var followingID *uuid.UUID
		if id, ok := followingIDs[rows[i].OwnerID]; ok {
			followingID = &id
		}
		views[i] = Profile(&rows[i], requester, followingID)
	}
	return views
}

func Comment(row *models.CommentRow, requester *models.Requester) models.CommentView {
	return models.CommentView{
		ID:           row.ID,
		Owner:        row.OwnerUsername,
		IsOwner:      requester.IsOwner(row.OwnerID),
		ProfileID:    row.ProfileID,
		ProfileImage: row.ProfileImage,
		Post:         row.PostID,
		PostTitle:    row.PostTitle,
		Content:      row.Content,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

func Comments(rows []models.CommentRow, requester *models.Requester) []models.CommentView {
	views := make([]models.CommentView, len(rows))
	for i := range rows {
		views[i] = Comment(&rows[i], requester)
	}
	return views
}

func Like(row *models.LikeRow, requester *models.Requester) models.LikeView {
	return models.LikeView{
		ID:      row.ID,
		Owner:   row.OwnerUsername,
		IsOwner: requester.IsOwner(row.OwnerID),
		Post:    row.PostID,
		PostInfo: models.PostInfo{
			Username: row.PostOwner,
			Title:    row.PostTitle,
		},
		CreatedAt: row.CreatedAt,
	}
}

func Likes(rows []models.LikeRow, requester *models.Requester) []models.LikeView {
	views := make([]models.LikeView, len(rows))
	for i := range rows {
		views[i] = Like(&rows[i], requester)
	}
	return views
}

func Follower(row *models.FollowerRow, requester *models.Requester) models.FollowerView {
	return models.FollowerView{
		ID:           row.ID,
		Owner:        row.OwnerUsername,
		IsOwner:      requester.IsOwner(row.OwnerID),
		Followed:     row.FollowedID,
		FollowedName: row.FollowedUsername,
		CreatedAt:    row.CreatedAt,
	}
}

func Followers(rows []models.FollowerRow, requester *models.Requester) []models.FollowerView {
	views := make([]models.FollowerView, len(rows))
	for i := range rows {
		views[i] = Follower(&rows[i], requester)
	}
	return views
}
