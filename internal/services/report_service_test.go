package services

import (
	"errors"
	"testing"
	"time"

	"github.com/quizarena/backend/internal/dto"
	"github.com/quizarena/backend/internal/faults"
	"github.com/quizarena/backend/internal/models"
)

type fakeAuth struct {
	accountID int64
	err       error
	calls     int
}

func (f *fakeAuth) Authenticate(token string) (int64, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	return f.accountID, nil
}

type fakeStore struct {
	result *SubmitResult
	err    error
	calls  int

	gotReporterID int64
	gotReq        *dto.SubmitReportRequest
}

func (f *fakeStore) Submit(reporterID int64, req *dto.SubmitReportRequest) (*SubmitResult, error) {
	f.calls++
	f.gotReporterID = reporterID
	f.gotReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeHook struct {
	calls   int
	gotResp *dto.SubmitReportResponse
}

func (f *fakeHook) HandleReport(req *dto.SubmitReportRequest, resp *dto.SubmitReportResponse) {
	f.calls++
	f.gotResp = resp
}

func serviceFixture(t *testing.T, auth *fakeAuth, store *fakeStore, hook SanctionHandler) *ReportService {
	t.Helper()
	db := openTestDB(t)
	policies := loadedPolicyStore(t, db)
	return NewReportService(auth, store, policies, hook)
}

func validSubmitRequest() *dto.SubmitReportRequest {
	return &dto.SubmitReportRequest{
		SessionToken:      "session-token",
		ReportedAccountID: 42,
		ReasonCode:        "harassment",
	}
}

func TestSubmitReportHappyPath(t *testing.T) {
	end := time.Date(2026, 8, 1, 12, 10, 0, 0, time.UTC)
	auth := &fakeAuth{accountID: 7}
	store := &fakeStore{result: &SubmitResult{
		ReportID:        101,
		SanctionApplied: true,
		SanctionKind:    models.SanctionKindTemporary,
		SanctionEnd:     &end,
	}}
	hook := &fakeHook{}
	svc := serviceFixture(t, auth, store, hook)

	resp, err := svc.SubmitReport(validSubmitRequest())
	if err != nil {
		t.Fatalf("SubmitReport failed: %v", err)
	}
	if resp.ReportID != 101 || !resp.SanctionApplied || resp.SanctionKind != models.SanctionKindTemporary {
		t.Errorf("unexpected response: %+v", resp)
	}
	if resp.SanctionEndUtc == nil || !resp.SanctionEndUtc.Equal(end) {
		t.Errorf("SanctionEndUtc = %v, want %v", resp.SanctionEndUtc, end)
	}
	if store.gotReporterID != 7 {
		t.Errorf("store received reporter %d, want 7", store.gotReporterID)
	}
	if hook.calls != 1 || hook.gotResp != resp {
		t.Errorf("hook calls = %d, want exactly one call with the response", hook.calls)
	}
}

func TestSubmitReportHookRunsWithoutSanction(t *testing.T) {
	auth := &fakeAuth{accountID: 7}
	store := &fakeStore{result: &SubmitResult{ReportID: 102}}
	hook := &fakeHook{}
	svc := serviceFixture(t, auth, store, hook)

	resp, err := svc.SubmitReport(validSubmitRequest())
	if err != nil {
		t.Fatalf("SubmitReport failed: %v", err)
	}
	if resp.SanctionApplied {
		t.Error("SanctionApplied = true, want false")
	}
	if hook.calls != 1 {
		t.Errorf("hook calls = %d, want 1 even without a sanction", hook.calls)
	}
}

func TestSubmitReportNilHook(t *testing.T) {
	auth := &fakeAuth{accountID: 7}
	store := &fakeStore{result: &SubmitResult{ReportID: 103}}
	svc := serviceFixture(t, auth, store, nil)

	if _, err := svc.SubmitReport(validSubmitRequest()); err != nil {
		t.Fatalf("SubmitReport with nil hook failed: %v", err)
	}
}

func TestSubmitReportValidationShortCircuits(t *testing.T) {
	auth := &fakeAuth{accountID: 7}
	store := &fakeStore{}
	hook := &fakeHook{}
	svc := serviceFixture(t, auth, store, hook)

	req := validSubmitRequest()
	req.ReasonCode = "bad_vibes"
	_, err := svc.SubmitReport(req)
	if !errors.Is(err, faults.ErrInvalidReason) {
		t.Errorf("err = %v, want ErrInvalidReason", err)
	}
	if auth.calls != 0 || store.calls != 0 || hook.calls != 0 {
		t.Errorf("downstream touched on invalid request: auth=%d store=%d hook=%d",
			auth.calls, store.calls, hook.calls)
	}
}

func TestSubmitReportAuthFailureShortCircuits(t *testing.T) {
	auth := &fakeAuth{err: faults.ErrTokenInvalid}
	store := &fakeStore{}
	hook := &fakeHook{}
	svc := serviceFixture(t, auth, store, hook)

	_, err := svc.SubmitReport(validSubmitRequest())
	if !errors.Is(err, faults.ErrTokenInvalid) {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
	if store.calls != 0 || hook.calls != 0 {
		t.Errorf("store/hook touched after failed auth: store=%d hook=%d", store.calls, hook.calls)
	}
}

func TestSubmitReportSelfReportAfterAuth(t *testing.T) {
	auth := &fakeAuth{accountID: 42}
	store := &fakeStore{}
	svc := serviceFixture(t, auth, store, nil)

	_, err := svc.SubmitReport(validSubmitRequest())
	if !errors.Is(err, faults.ErrSelfReport) {
		t.Errorf("err = %v, want ErrSelfReport", err)
	}
	if store.calls != 0 {
		t.Errorf("store touched on self report: %d calls", store.calls)
	}
}

func TestSubmitReportReclassifiesStoreFailure(t *testing.T) {
	tests := []struct {
		name     string
		storeErr error
		wantCode faults.Code
	}{
		{"timeout", &faults.StoreError{Class: faults.FailureTimeout, Err: errors.New("deadline")}, faults.CodeTimeout},
		{"connectivity", &faults.StoreError{Class: faults.FailureConnectivity, Err: errors.New("refused")}, faults.CodeCommunication},
		{"duplicate", &faults.StoreError{Class: faults.FailureDatabase, Err: ErrDuplicateReport}, faults.CodeDbError},
		{"unknown", errors.New("boom"), faults.CodeUnexpected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := &fakeAuth{accountID: 7}
			store := &fakeStore{err: tt.storeErr}
			hook := &fakeHook{}
			svc := serviceFixture(t, auth, store, hook)

			_, err := svc.SubmitReport(validSubmitRequest())
			fault, ok := faults.IsFault(err)
			if !ok || fault.Code != tt.wantCode {
				t.Errorf("err = %v, want fault %s", err, tt.wantCode)
			}
			if hook.calls != 0 {
				t.Errorf("hook called on store failure: %d calls", hook.calls)
			}
		})
	}
}
