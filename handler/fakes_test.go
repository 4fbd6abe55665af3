package handler_test

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"moments/apperr"
	"moments/model"
)

// memDB is an in-memory stand-in for the database shared by the fake
// repositories, so handler tests exercise the same cross-entity semantics
// (counts, cascades, uniqueness) the SQL layer provides.
type memDB struct {
	mu       sync.Mutex
	users    map[uuid.UUID]*models.User
	profiles map[uuid.UUID]*models.Profile
	posts    map[uuid.UUID]*models.Post
	comments map[uuid.UUID]*models.Comment
	likes    map[uuid.UUID]*models.Like
	follows  map[uuid.UUID]*models.Follower
}

func newMemDB() *memDB {
	return &memDB{
		users:    make(map[uuid.UUID]*models.User),
		profiles: make(map[uuid.UUID]*models.Profile),
		posts:    make(map[uuid.UUID]*models.Post),
		comments: make(map[uuid.UUID]*models.Comment),
		likes:    make(map[uuid.UUID]*models.Like),
		follows:  make(map[uuid.UUID]*models.Follower),
	}
}

func (db *memDB) username(userID uuid.UUID) string {
	if user, ok := db.users[userID]; ok {
		return user.Username
	}
	return ""
}

func (db *memDB) profileOf(ownerID uuid.UUID) *models.Profile {
	for _, profile := range db.profiles {
		if profile.OwnerID == ownerID {
			return profile
		}
	}
	return nil
}

func (db *memDB) postRow(post *models.Post) models.PostRow {
	row := models.PostRow{Post: *post}
	row.OwnerUsername = db.username(post.OwnerID)
	if profile := db.profileOf(post.OwnerID); profile != nil {
		row.ProfileID = profile.ID
		row.ProfileImage = profile.Image
	}
	for _, comment := range db.comments {
		if comment.PostID == post.ID {
			row.CommentsCount++
		}
	}
	for _, like := range db.likes {
		if like.PostID == post.ID {
			row.LikesCount++
		}
	}
	return row
}

func (db *memDB) profileRow(profile *models.Profile) models.ProfileRow {
	row := models.ProfileRow{Profile: *profile}
	row.OwnerUsername = db.username(profile.OwnerID)
	for _, post := range db.posts {
		if post.OwnerID == profile.OwnerID {
			row.PostsCount++
		}
	}
	for _, follow := range db.follows {
		if follow.FollowedID == profile.OwnerID {
			row.FollowersCount++
		}
		if follow.OwnerID == profile.OwnerID {
			row.FollowingCount++
		}
	}
	return row
}

func (db *memDB) commentRow(comment *models.Comment) models.CommentRow {
	row := models.CommentRow{Comment: *comment}
	row.OwnerUsername = db.username(comment.OwnerID)
	if profile := db.profileOf(comment.OwnerID); profile != nil {
		row.ProfileID = profile.ID
		row.ProfileImage = profile.Image
	}
	if post, ok := db.posts[comment.PostID]; ok {
		row.PostTitle = post.Title
	}
	return row
}

func (db *memDB) likeRow(like *models.Like) models.LikeRow {
	row := models.LikeRow{Like: *like}
	row.OwnerUsername = db.username(like.OwnerID)
	if post, ok := db.posts[like.PostID]; ok {
		row.PostOwner = db.username(post.OwnerID)
		row.PostTitle = post.Title
	}
	return row
}

func (db *memDB) followerRow(follow *models.Follower) models.FollowerRow {
	row := models.FollowerRow{Follower: *follow}
	row.OwnerUsername = db.username(follow.OwnerID)
	row.FollowedUsername = db.username(follow.FollowedID)
	return row
}

// followedBy returns the set of user ids this user follows.
func (db *memDB) followedBy(userID uuid.UUID) map[uuid.UUID]bool {
	followed := make(map[uuid.UUID]bool)
	for _, follow := range db.follows {
		if follow.OwnerID == userID {
			followed[follow.FollowedID] = true
		}
	}
	return followed
}

type fakeUserRepo struct{ db *memDB }

func (r *fakeUserRepo) Register(_ context.Context, user *models.User, profile *models.Profile) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.users {
		if existing.Username == user.Username {
			return apperr.FieldError("username", "a user with that username already exists")
		}
		if existing.Email == user.Email {
			return apperr.FieldError("email", "a user with that email already exists")
		}
	}
	r.db.users[user.ID] = user
	r.db.profiles[profile.ID] = profile
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, userID uuid.UUID) (*models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	user, ok := r.db.users[userID]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, user := range r.db.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, apperr.ErrNotFound
}

type fakeProfileRepo struct{ db *memDB }

func (r *fakeProfileRepo) List(_ context.Context, filter models.ProfileFilter) ([]models.ProfileRow, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var rows []models.ProfileRow
	for _, profile := range r.db.profiles {
		if filter.OwnerID != nil && profile.OwnerID != *filter.OwnerID {
			continue
		}
		if filter.FollowedBy != nil && !r.db.followedBy(*filter.FollowedBy)[profile.OwnerID] {
			continue
		}
		if filter.Following != nil && !r.db.followedBy(profile.OwnerID)[*filter.Following] {
			continue
		}
		rows = append(rows, r.db.profileRow(profile))
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
	return rows, nil
}

func (r *fakeProfileRepo) GetByID(_ context.Context, profileID uuid.UUID) (*models.ProfileRow, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	profile, ok := r.db.profiles[profileID]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	row := r.db.profileRow(profile)
	return &row, nil
}

func (r *fakeProfileRepo) Update(_ context.Context, profileID uuid.UUID, input *models.UpdateProfileInput) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	profile, ok := r.db.profiles[profileID]
	if !ok {
		return apperr.ErrNotFound
	}
	if input.Name != nil {
		profile.Name = *input.Name
	}
	if input.Content != nil {
		profile.Content = *input.Content
	}
	if input.Image != nil {
		profile.Image = *input.Image
	}
	return nil
}

type fakePostRepo struct{ db *memDB }

func (r *fakePostRepo) List(_ context.Context, filter models.PostFilter) ([]models.PostRow, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var rows []models.PostRow
	for _, post := range r.db.posts {
		if filter.OwnerID != nil && post.OwnerID != *filter.OwnerID {
			continue
		}
		if filter.LikedBy != nil {
			liked := false
			for _, like := range r.db.likes {
				if like.OwnerID == *filter.LikedBy && like.PostID == post.ID {
					liked = true
					break
				}
			}
			if !liked {
				continue
			}
		}
		if filter.FeedOf != nil && !r.db.followedBy(*filter.FeedOf)[post.OwnerID] {
			continue
		}
		rows = append(rows, r.db.postRow(post))
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
	return rows, nil
}

func (r *fakePostRepo) ListByIDs(_ context.Context, postIDs []uuid.UUID) ([]models.PostRow, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var rows []models.PostRow
	for _, id := range postIDs {
		if post, ok := r.db.posts[id]; ok {
			rows = append(rows, r.db.postRow(post))
		}
	}
	return rows, nil
}

func (r *fakePostRepo) GetByID(_ context.Context, postID uuid.UUID) (*models.PostRow, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	post, ok := r.db.posts[postID]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	row := r.db.postRow(post)
	return &row, nil
}

func (r *fakePostRepo) Create(_ context.Context, post *models.Post) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.posts[post.ID] = post
	return nil
}

func (r *fakePostRepo) Update(_ context.Context, postID uuid.UUID, input *models.UpdatePostInput) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	post, ok := r.db.posts[postID]
	if !ok {
		return apperr.ErrNotFound
	}
	if input.Title != nil {
		post.Title = *input.Title
	}
	if input.Content != nil {
		post.Content = *input.Content
	}
	if input.Image != nil {
		post.Image = *input.Image
	}
	if input.ImageFilter != nil {
		post.ImageFilter = *input.ImageFilter
	}
	return nil
}

func (r *fakePostRepo) Delete(_ context.Context, postID uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.posts[postID]; !ok {
		return apperr.ErrNotFound
	}
	delete(r.db.posts, postID)
	for id, comment := range r.db.comments {
		if comment.PostID == postID {
			delete(r.db.comments, id)
		}
	}
	for id, like := range r.db.likes {
		if like.PostID == postID {
			delete(r.db.likes, id)
		}
	}
	return nil
}

type fakeCommentRepo struct{ db *memDB }

func (r *fakeCommentRepo) List(_ context.Context, filter models.CommentFilter) ([]models.CommentRow, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var rows []models.CommentRow
	for _, comment := range r.db.comments {
		if filter.PostID != nil && comment.PostID != *filter.PostID {
			continue
		}
		if filter.OwnerID != nil && comment.OwnerID != *filter.OwnerID {
			continue
		}
		rows = append(rows, r.db.commentRow(comment))
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
	return rows, nil
}

func (r *fakeCommentRepo) GetByID(_ context.Context, commentID uuid.UUID) (*models.CommentRow, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	comment, ok := r.db.comments[commentID]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	row := r.db.commentRow(comment)
	return &row, nil
}

func (r *fakeCommentRepo) Create(_ context.Context, comment *models.Comment) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.posts[comment.PostID]; !ok {
		return apperr.ErrNotFound
	}
	r.db.comments[comment.ID] = comment
	return nil
}

func (r *fakeCommentRepo) Update(_ context.Context, commentID uuid.UUID, content string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	comment, ok := r.db.comments[commentID]
	if !ok {
		return apperr.ErrNotFound
	}
	comment.Content = content
	return nil
}

func (r *fakeCommentRepo) Delete(_ context.Context, commentID uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.comments[commentID]; !ok {
		return apperr.ErrNotFound
	}
	delete(r.db.comments, commentID)
	return nil
}

type fakeLikeRepo struct{ db *memDB }

func (r *fakeLikeRepo) Create(_ context.Context, ownerID, postID uuid.UUID) (*models.Like, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.posts[postID]; !ok {
		return nil, apperr.ErrNotFound
	}
	for _, like := range r.db.likes {
		if like.OwnerID == ownerID && like.PostID == postID {
			return nil, apperr.ErrDuplicate
		}
	}
	like := &models.Like{ID: uuid.New(), OwnerID: ownerID, PostID: postID}
	r.db.likes[like.ID] = like
	return like, nil
}

func (r *fakeLikeRepo) List(_ context.Context, filter models.LikeFilter) ([]models.LikeRow, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var rows []models.LikeRow
	for _, like := range r.db.likes {
		if filter.PostID != nil && like.PostID != *filter.PostID {
			continue
		}
		if filter.OwnerID != nil && like.OwnerID != *filter.OwnerID {
			continue
		}
		rows = append(rows, r.db.likeRow(like))
	}
	return rows, nil
}

func (r *fakeLikeRepo) GetByID(_ context.Context, likeID uuid.UUID) (*models.LikeRow, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	like, ok := r.db.likes[likeID]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	row := r.db.likeRow(like)
	return &row, nil
}

func (r *fakeLikeRepo) Delete(_ context.Context, likeID uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.likes[likeID]; !ok {
		return apperr.ErrNotFound
	}
	delete(r.db.likes, likeID)
	return nil
}

func (r *fakeLikeRepo) LikeIDsForPosts(_ context.Context, ownerID uuid.UUID, postIDs []uuid.UUID) (map[uuid.UUID]uuid.UUID, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	wanted := make(map[uuid.UUID]bool, len(postIDs))
	for _, id := range postIDs {
		wanted[id] = true
	}
	result := make(map[uuid.UUID]uuid.UUID)
	for _, like := range r.db.likes {
		if like.OwnerID == ownerID && wanted[like.PostID] {
			result[like.PostID] = like.ID
		}
	}
	return result, nil
}

type fakeFollowerRepo struct{ db *memDB }

func (r *fakeFollowerRepo) Create(_ context.Context, ownerID, followedID uuid.UUID) (*models.Follower, error) {
	if ownerID == followedID {
		return nil, apperr.FieldError("followed", "users cannot follow themselves")
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.users[followedID]; !ok {
		return nil, apperr.ErrNotFound
	}
	for _, follow := range r.db.follows {
		if follow.OwnerID == ownerID && follow.FollowedID == followedID {
			return nil, apperr.ErrDuplicate
		}
	}
	follow := &models.Follower{ID: uuid.New(), OwnerID: ownerID, FollowedID: followedID}
	r.db.follows[follow.ID] = follow
	return follow, nil
}

func (r *fakeFollowerRepo) List(_ context.Context, filter models.FollowerFilter) ([]models.FollowerRow, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var rows []models.FollowerRow
	for _, follow := range r.db.follows {
		if filter.OwnerID != nil && follow.OwnerID != *filter.OwnerID {
			continue
		}
		if filter.FollowedID != nil && follow.FollowedID != *filter.FollowedID {
			continue
		}
		rows = append(rows, r.db.followerRow(follow))
	}
	return rows, nil
}

func (r *fakeFollowerRepo) GetByID(_ context.Context, followID uuid.UUID) (*models.FollowerRow, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	follow, ok := r.db.follows[followID]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	row := r.db.followerRow(follow)
	return &row, nil
}

func (r *fakeFollowerRepo) Delete(_ context.Context, followID uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.follows[followID]; !ok {
		return apperr.ErrNotFound
	}
	delete(r.db.follows, followID)
	return nil
}

func (r *fakeFollowerRepo) FollowingIDsFor(_ context.Context, ownerID uuid.UUID, followedIDs []uuid.UUID) (map[uuid.UUID]uuid.UUID, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	wanted := make(map[uuid.UUID]bool, len(followedIDs))
	for _, id := range followedIDs {
		wanted[id] = true
	}
	result := make(map[uuid.UUID]uuid.UUID)
	for _, follow := range r.db.follows {
		if follow.OwnerID == ownerID && wanted[follow.FollowedID] {
			result[follow.FollowedID] = follow.ID
		}
	}
	return result, nil
}

type fakeFeedRepo struct{ db *memDB }

func (r *fakeFeedRepo) GetTimeline(_ context.Context, userID uuid.UUID, limit, offset int) ([]uuid.UUID, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	followed := r.db.followedBy(userID)
	var posts []*models.Post
	for _, post := range r.db.posts {
		if followed[post.OwnerID] {
			posts = append(posts, post)
		}
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].CreatedAt.After(posts[j].CreatedAt) })
	if offset > len(posts) {
		offset = len(posts)
	}
	posts = posts[offset:]
	if limit > 0 && limit < len(posts) {
		posts = posts[:limit]
	}
	ids := make([]uuid.UUID, len(posts))
	for i, post := range posts {
		ids[i] = post.ID
	}
	return ids, nil
}

func (r *fakeFeedRepo) InvalidateUser(context.Context, uuid.UUID) error { return nil }

func (r *fakeFeedRepo) InvalidateFollowersOf(context.Context, uuid.UUID) error { return nil }
