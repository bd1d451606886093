package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/algolia/algoliasearch-client-go/v4/algolia/search"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/iterator"

	"questTally/services/audit"
	"questTally/utils"
)

type Service interface {
	// GetUser resolves a user by document id or username.
	GetUser(ctx context.Context, ID string) (*User, error)
	// CreateUser persists a new user. When the id is set it becomes the
	// document id, so auth uids map straight to documents.
	CreateUser(ctx context.Context, user *User) (*User, error)
	// GetAll returns all users. Used for admin backfills and the
	// leaderboard refresh job.
	GetAll(ctx context.Context) ([]User, error)
	// UpdateProfile applies a partial profile update.
	UpdateProfile(ctx context.Context, userID string, displayName, avatarURL string) error
	// UpdateUserSearch pushes every user into the search index.
	UpdateUserSearch(ctx context.Context) error
	Search(ctx context.Context, query string, page int) ([]SearchUserResult, error)
}

type userService struct {
	db           *firestore.Client
	searchClient *search.APIClient
	audit        audit.Service
}

var _ Service = (*userService)(nil)

const (
	userCollection  = "users"
	userSearchIndex = "user_index"
)

func NewUserService(client *firestore.Client, searchClient *search.APIClient, auditService audit.Service) Service {
	return &userService{
		db:           client,
		searchClient: searchClient,
		audit:        auditService,
	}
}

var NotFound = errors.New("user not found")
var ErrDuplicateUsername = errors.New("username already taken")

func (s *userService) GetUser(ctx context.Context, ID string) (*User, error) {
	user := User{}

	q1 := firestore.PropertyFilter{
		Path:     "id",
		Operator: "==",
		Value:    ID,
	}
	q2 := firestore.PropertyFilter{
		Path:     "username",
		Operator: "==",
		Value:    ID,
	}
	q3 := firestore.PropertyFilter{
		Path:     "email",
		Operator: "==",
		Value:    ID,
	}
	orFilter := firestore.OrFilter{
		Filters: []firestore.EntityFilter{q1, q2, q3},
	}

	iter := s.db.Collection(userCollection).WhereEntity(orFilter).Documents(ctx)

	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		err = doc.DataTo(&user)
		if err != nil {
			return nil, err
		}
		return &user, nil
	}

	return nil, NotFound
}

func (s *userService) CreateUser(ctx context.Context, user *User) (*User, error) {
	if user == nil {
		return nil, errors.New("user is nil")
	}
	if user.Username != "" {
		docs, err := s.db.Collection(userCollection).
			Where("username", "==", user.Username).
			Limit(1).
			Documents(ctx).
			GetAll()
		if err != nil {
			return nil, fmt.Errorf("failed to check username: %w", err)
		}
		if len(docs) > 0 {
			return nil, ErrDuplicateUsername
		}
	}

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	ref := s.db.Collection(userCollection).NewDoc()
	if user.ID != "" {
		ref = s.db.Collection(userCollection).Doc(user.ID)
	}
	user.ID = ref.ID

	_, err := ref.Set(ctx, user)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, audit.Event{
		UserID:       user.ID,
		Username:     user.Username,
		Action:       audit.ActionCreateUser,
		ResourceType: audit.ResourceUser,
		ResourceID:   user.ID,
	})

	return user, nil
}

// GetAll returns all users in the system. Intended for admin backfills.
func (s *userService) GetAll(ctx context.Context) ([]User, error) {
	docs, err := s.db.Collection(userCollection).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	results, err := utils.GetAllToStructs[User](docs)
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, displayName, avatarURL string) error {
	updates := map[string]any{
		"updatedAt": time.Now(),
	}
	if displayName != "" {
		updates["displayName"] = displayName
	}
	if avatarURL != "" {
		updates["avatarUrl"] = avatarURL
	}
	_, err := s.db.Collection(userCollection).Doc(userID).Set(ctx, updates, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

func (s *userService) UpdateUserSearch(ctx context.Context) error {
	users, err := s.GetAll(ctx)
	if err != nil {
		return err
	}
	u := make([]map[string]any, 0)
	for _, user := range users {
		u = append(u, map[string]any{
			"objectID":    user.ID,
			"username":    user.Username,
			"displayName": user.DisplayName,
		})
	}
	// push data to algolia
	result, err := s.searchClient.SaveObjects(userSearchIndex, u)
	if err != nil {
		return err
	}
	log.Info().Msgf("uploaded user search records in %d batches", len(result))
	return nil
}

func (s *userService) Search(ctx context.Context, query string, page int) ([]SearchUserResult, error) {
	searchParams := search.SearchParams{
		SearchParamsObject: search.
			NewEmptySearchParamsObject().
			SetQuery(query),
	}
	response, err := s.searchClient.SearchSingleIndex(
		s.searchClient.NewApiSearchSingleIndexRequest(userSearchIndex).WithSearchParams(&searchParams),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search algolia: %w", err)
	}
	results := make([]SearchUserResult, 0, len(response.Hits))

	for _, hit := range response.Hits {
		var result SearchUserResult
		// Marshal to JSON then unmarshal to struct
		jsonData, err := json.Marshal(hit)
		if err != nil {
			continue
		}
		if err := json.Unmarshal(jsonData, &result); err != nil {
			continue
		}
		results = append(results, result)
	}

	return results, nil
}
