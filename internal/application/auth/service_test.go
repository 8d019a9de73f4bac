package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"textbook-assistant-api/internal/domain/entity"
	apperrors "textbook-assistant-api/pkg/errors"
	"textbook-assistant-api/pkg/utils"
)

type fakeUserRepo struct {
	byID    map[string]*entity.User
	byEmail map[string]*entity.User
	nextID  int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    map[string]*entity.User{},
		byEmail: map[string]*entity.User{},
	}
}

func (f *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	f.nextID++
	u.ID = fmt.Sprintf("user-%d", f.nextID)
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	return f.byID[id], nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return f.byEmail[email], nil
}

func (f *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id string) error {
	if u, ok := f.byID[id]; ok {
		delete(f.byEmail, u.Email)
		delete(f.byID, id)
	}
	return nil
}

func (f *fakeUserRepo) UpdateLastLogin(_ context.Context, id string) error {
	if u, ok := f.byID[id]; ok {
		now := time.Now()
		u.LastLoginAt = &now
	}
	return nil
}

func (f *fakeUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, ok := f.byEmail[email]
	return ok, nil
}

func newTestService() (*Service, *fakeUserRepo) {
	repo := newFakeUserRepo()
	jwt := utils.NewJWTManager("test-secret", "textbook-assistant")
	return NewService(repo, jwt, time.Minute, time.Hour), repo
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	user, tokens, err := svc.Register(ctx, "Learner@Example.com", "strongpass", "Learner")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Email != "learner@example.com" {
		t.Errorf("email = %q, want lowercased", user.Email)
	}
	if user.Role != entity.UserRoleStudent {
		t.Errorf("role = %q, want student", user.Role)
	}
	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		t.Error("token pair incomplete")
	}

	loggedIn, _, err := svc.Login(ctx, "learner@example.com", "strongpass")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if loggedIn.ID != user.ID {
		t.Errorf("logged in as %q, want %q", loggedIn.ID, user.ID)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "a@b.co", "strongpass", ""); err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, _, err := svc.Register(ctx, "a@b.co", "otherpass1", "")
	if !apperrors.HasCode(err, apperrors.CodeConflict) {
		t.Errorf("error = %v, want conflict", err)
	}
}

func TestRegisterWeakPassword(t *testing.T) {
	svc, _ := newTestService()

	_, _, err := svc.Register(context.Background(), "a@b.co", "short", "")
	if !apperrors.HasCode(err, apperrors.CodeInvalidParam) {
		t.Errorf("error = %v, want invalid param", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "a@b.co", "strongpass", ""); err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, _, err := svc.Login(ctx, "a@b.co", "wrongpass1")
	if !apperrors.HasCode(err, apperrors.CodeUnauthorized) {
		t.Errorf("error = %v, want unauthorized", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _ := newTestService()

	_, _, err := svc.Login(context.Background(), "nobody@b.co", "whatever1")
	if !apperrors.HasCode(err, apperrors.CodeUnauthorized) {
		t.Errorf("error = %v, want unauthorized", err)
	}
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, tokens, err := svc.Register(ctx, "a@b.co", "strongpass", "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.Refresh(ctx, tokens.AccessToken); !apperrors.HasCode(err, apperrors.CodeTokenInvalid) {
		t.Errorf("error = %v, want token invalid", err)
	}
}

func TestRefreshIssuesNewPair(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, tokens, err := svc.Register(ctx, "a@b.co", "strongpass", "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	pair, err := svc.Refresh(ctx, tokens.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Error("refreshed token pair incomplete")
	}
}

func TestUpdateProfileValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	user, _, err := svc.Register(ctx, "a@b.co", "strongpass", "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	bad := entity.ExperienceLevel("wizard")
	if _, err := svc.UpdateProfile(ctx, user.ID, &ProfileUpdate{ExperienceLevel: &bad}); !apperrors.HasCode(err, apperrors.CodeInvalidParam) {
		t.Errorf("error = %v, want invalid param", err)
	}

	level := entity.ExperienceAdvanced
	pace := entity.PaceFast
	updated, err := svc.UpdateProfile(ctx, user.ID, &ProfileUpdate{
		ExperienceLevel: &level,
		LearningPace:    &pace,
		CareerGoals:     []string{"robotics engineer"},
	})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.ExperienceLevel != entity.ExperienceAdvanced || updated.LearningPace != entity.PaceFast {
		t.Errorf("profile not updated: %+v", updated)
	}
	if len(updated.CareerGoals) != 1 {
		t.Errorf("career goals = %v", updated.CareerGoals)
	}
}
