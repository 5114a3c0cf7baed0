package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	fbauth "firebase.google.com/go/v4/auth"

	"museumCompanionAPI/internal/docstore"
	"museumCompanionAPI/internal/types/user"
)

const identityToolkitURL = "https://identitytoolkit.googleapis.com/v1/accounts:signInWithPassword"

var ErrInvalidCredentials = errors.New("invalid email or password")

// AuthAdmin is the slice of the Firebase Admin auth client the service needs.
type AuthAdmin interface {
	CreateUser(ctx context.Context, u *fbauth.UserToCreate) (*fbauth.UserRecord, error)
	DeleteUser(ctx context.Context, uid string) error
}

// UserService owns sign-up, password login and profile reads. Authentication
// itself lives in Firebase Auth; only the profile document (name, phone) is
// ours, stored at users/<uid>.
type UserService struct {
	store      docstore.Store
	auth       AuthAdmin
	httpClient *http.Client
	apiKey     string
	signInURL  string
}

func NewUserService(store docstore.Store, auth AuthAdmin, apiKey string) *UserService {
	return &UserService{
		store:      store,
		auth:       auth,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiKey:     apiKey,
		signInURL:  identityToolkitURL,
	}
}

// SignUp creates the auth user, writes the profile document, and logs the new
// user in so the caller leaves with token + uid. If the profile write fails
// the auth user is rolled back; a half-created account could otherwise log in
// with no profile to resolve.
func (s *UserService) SignUp(ctx context.Context, req *user.SignUpRequest) (*user.Credentials, *user.User, error) {
	if req.Email == "" || req.Password == "" {
		return nil, nil, errors.New("email and password are required")
	}

	create := (&fbauth.UserToCreate{}).
		Email(req.Email).
		Password(req.Password).
		DisplayName(req.FirstName + " " + req.LastName)

	record, err := s.auth.CreateUser(ctx, create)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create auth user: %w", err)
	}
	log.Printf("SignUp: created auth user %s", record.UID)

	profile := user.User{
		ID:        record.UID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
	}
	batch := s.store.Batch()
	batch.Set(collectionUsers, record.UID, profile)
	if err := batch.Commit(ctx); err != nil {
		if delErr := s.auth.DeleteUser(ctx, record.UID); delErr != nil {
			log.Printf("SignUp: failed to roll back auth user %s: %v", record.UID, delErr)
		}
		return nil, nil, fmt.Errorf("failed to save profile for %s: %w", record.UID, err)
	}

	creds, err := s.Login(ctx, &user.LoginRequest{Email: req.Email, Password: req.Password})
	if err != nil {
		return nil, nil, fmt.Errorf("account created but login failed: %w", err)
	}
	return creds, &profile, nil
}

// Login exchanges email/password for an ID token and uid through the
// Identity Toolkit REST endpoint, the same call the mobile SDK makes under
// signInWithEmailAndPassword.
func (s *UserService) Login(ctx context.Context, req *user.LoginRequest) (*user.Credentials, error) {
	body, err := json.Marshal(map[string]any{
		"email":             req.Email,
		"password":          req.Password,
		"returnSecureToken": true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode login request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.signInURL+"?key="+s.apiKey, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build login request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusBadRequest {
		// Identity Toolkit reports wrong credentials as 400.
		return nil, ErrInvalidCredentials
	}
	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("login failed with status %d: %s", resp.StatusCode, payload)
	}

	var result struct {
		IDToken string `json:"idToken"`
		LocalID string `json:"localId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode login response: %w", err)
	}
	return &user.Credentials{Token: result.IDToken, UserID: result.LocalID}, nil
}

// GetUserByID resolves a profile document. Absence surfaces as
// docstore.ErrNotFound.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (*user.User, error) {
	doc, err := s.store.Get(ctx, collectionUsers, userID)
	if err != nil {
		return nil, err
	}
	var profile user.User
	if err := doc.DataTo(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile %s: %w", userID, err)
	}
	profile.ID = doc.ID
	return &profile, nil
}
