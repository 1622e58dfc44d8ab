package alerts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepository struct {
	createContactFn    func(ctx context.Context, contact *CaregiverContact) error
	listContactsFn     func(ctx context.Context, userID int64) ([]*CaregiverContact, error)
	getContactFn       func(ctx context.Context, userID, contactID int64) (*CaregiverContact, error)
	updateContactFn    func(ctx context.Context, contact *CaregiverContact) error
	deleteContactFn    func(ctx context.Context, userID, contactID int64) (bool, error)
	createAlertFn      func(ctx context.Context, alert *Alert) error
	getAlertFn         func(ctx context.Context, alertID int64) (*Alert, error)
	resolveAlertFn     func(ctx context.Context, alertID, resolverID int64) (bool, error)
	listAlertsFn       func(ctx context.Context, userID int64, limit int) ([]*Alert, error)
	isCaregiverForFn   func(ctx context.Context, caregiverUserID, userID int64) (bool, error)
	resolveUserIDFn    func(ctx context.Context, publicID string) (int64, string, error)
	caregiverUserIDsFn func(ctx context.Context, userID int64) ([]int64, error)
}

func (f *fakeRepository) CreateContact(ctx context.Context, contact *CaregiverContact) error {
	return f.createContactFn(ctx, contact)
}

func (f *fakeRepository) ListContacts(ctx context.Context, userID int64) ([]*CaregiverContact, error) {
	return f.listContactsFn(ctx, userID)
}

func (f *fakeRepository) GetContact(ctx context.Context, userID, contactID int64) (*CaregiverContact, error) {
	return f.getContactFn(ctx, userID, contactID)
}

func (f *fakeRepository) UpdateContact(ctx context.Context, contact *CaregiverContact) error {
	return f.updateContactFn(ctx, contact)
}

func (f *fakeRepository) DeleteContact(ctx context.Context, userID, contactID int64) (bool, error) {
	return f.deleteContactFn(ctx, userID, contactID)
}

func (f *fakeRepository) CreateAlert(ctx context.Context, alert *Alert) error {
	return f.createAlertFn(ctx, alert)
}

func (f *fakeRepository) GetAlert(ctx context.Context, alertID int64) (*Alert, error) {
	return f.getAlertFn(ctx, alertID)
}

func (f *fakeRepository) ResolveAlert(ctx context.Context, alertID, resolverID int64) (bool, error) {
	return f.resolveAlertFn(ctx, alertID, resolverID)
}

func (f *fakeRepository) ListAlerts(ctx context.Context, userID int64, limit int) ([]*Alert, error) {
	return f.listAlertsFn(ctx, userID, limit)
}

func (f *fakeRepository) IsCaregiverFor(ctx context.Context, caregiverUserID, userID int64) (bool, error) {
	return f.isCaregiverForFn(ctx, caregiverUserID, userID)
}

func (f *fakeRepository) ResolveUserID(ctx context.Context, publicID string) (int64, string, error) {
	return f.resolveUserIDFn(ctx, publicID)
}

func (f *fakeRepository) CaregiverUserIDs(ctx context.Context, userID int64) ([]int64, error) {
	if f.caregiverUserIDsFn == nil {
		return nil, nil
	}
	return f.caregiverUserIDsFn(ctx, userID)
}

func strptr(s string) *string { return &s }

func TestAddContactLinksCaregiverAccount(t *testing.T) {
	ctx := context.Background()

	var created *CaregiverContact
	repo := &fakeRepository{
		resolveUserIDFn: func(ctx context.Context, publicID string) (int64, string, error) {
			return 42, "nurse_joy", nil
		},
		createContactFn: func(ctx context.Context, contact *CaregiverContact) error {
			created = contact
			return nil
		},
	}
	svc := NewService(repo, NewMockSMSSender(), NewMockEmailSender(), nil)

	_, err := svc.AddContact(ctx, 1, &ContactInput{
		Name:              "Joy",
		CaregiverPublicID: strptr("11111111-2222-3333-4444-555555555555"),
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	require.NotNil(t, created.CaregiverUserID)
	assert.Equal(t, int64(42), *created.CaregiverUserID)
}

func TestAddContactUnknownCaregiver(t *testing.T) {
	repo := &fakeRepository{
		resolveUserIDFn: func(ctx context.Context, publicID string) (int64, string, error) {
			return 0, "", ErrUserNotFound
		},
	}
	svc := NewService(repo, NewMockSMSSender(), NewMockEmailSender(), nil)

	_, err := svc.AddContact(context.Background(), 1, &ContactInput{
		Name:              "Joy",
		CaregiverPublicID: strptr("11111111-2222-3333-4444-555555555555"),
	})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestTriggerAlertCreatesActiveAlert(t *testing.T) {
	repo := &fakeRepository{
		createAlertFn: func(ctx context.Context, alert *Alert) error {
			alert.ID = 7
			alert.Status = AlertActive
			alert.CreatedAt = time.Now()
			return nil
		},
		listContactsFn: func(ctx context.Context, userID int64) ([]*CaregiverContact, error) {
			return nil, nil
		},
	}
	svc := NewService(repo, NewMockSMSSender(), NewMockEmailSender(), nil)

	alert, err := svc.TriggerAlert(context.Background(), 1, "agnes", "I have fallen")
	require.NoError(t, err)
	assert.Equal(t, int64(7), alert.ID)
	assert.Equal(t, AlertActive, alert.Status)
}

func TestNotifyContactsHonorsChannelFlags(t *testing.T) {
	sms := NewMockSMSSender()
	email := NewMockEmailSender()
	svc := &service{sms: sms, email: email}

	contacts := []*CaregiverContact{
		{Name: "sms only", Phone: strptr("+15550001"), NotifySMS: true},
		{Name: "email only", Email: strptr("kin@example.com"), NotifyEmail: true},
		{Name: "muted", Phone: strptr("+15550002"), Email: strptr("other@example.com")},
		{Name: "sms flag without phone", NotifySMS: true},
	}

	svc.notifyContacts(contacts, "help", "alert")

	assert.Len(t, sms.Sent, 1)
	assert.Len(t, email.Sent, 1)
}

func TestResolveAlert(t *testing.T) {
	ctx := context.Background()

	newRepo := func(isCaregiver bool) *fakeRepository {
		resolved := false
		return &fakeRepository{
			getAlertFn: func(ctx context.Context, alertID int64) (*Alert, error) {
				alert := &Alert{ID: alertID, UserID: 1, Status: AlertActive}
				if resolved {
					alert.Status = AlertResolved
				}
				return alert, nil
			},
			resolveAlertFn: func(ctx context.Context, alertID, resolverID int64) (bool, error) {
				resolved = true
				return true, nil
			},
			isCaregiverForFn: func(ctx context.Context, caregiverUserID, userID int64) (bool, error) {
				return isCaregiver, nil
			},
		}
	}

	t.Run("owner resolves", func(t *testing.T) {
		svc := NewService(newRepo(false), NewMockSMSSender(), NewMockEmailSender(), nil)
		alert, err := svc.ResolveAlert(ctx, 7, 1)
		require.NoError(t, err)
		assert.Equal(t, AlertResolved, alert.Status)
	})

	t.Run("linked caregiver resolves", func(t *testing.T) {
		svc := NewService(newRepo(true), NewMockSMSSender(), NewMockEmailSender(), nil)
		alert, err := svc.ResolveAlert(ctx, 7, 42)
		require.NoError(t, err)
		assert.Equal(t, AlertResolved, alert.Status)
	})

	t.Run("stranger is forbidden", func(t *testing.T) {
		svc := NewService(newRepo(false), NewMockSMSSender(), NewMockEmailSender(), nil)
		_, err := svc.ResolveAlert(ctx, 7, 99)
		assert.ErrorIs(t, err, ErrNotPermitted)
	})

	t.Run("missing alert", func(t *testing.T) {
		repo := &fakeRepository{
			getAlertFn: func(ctx context.Context, alertID int64) (*Alert, error) {
				return nil, ErrAlertNotFound
			},
		}
		svc := NewService(repo, NewMockSMSSender(), NewMockEmailSender(), nil)
		_, err := svc.ResolveAlert(ctx, 7, 1)
		assert.ErrorIs(t, err, ErrAlertNotFound)
	})
}
