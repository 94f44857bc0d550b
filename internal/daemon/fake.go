package daemon

import "context"

// FakeClient is a test double with scripted responses and recorded uploads.
type FakeClient struct {
	// DeviceList is returned by ListDevices.
	DeviceList DeviceList

	// ListError, if set, will be returned by ListDevices.
	ListError error

	// ListCalls counts ListDevices invocations (discovery idempotence).
	ListCalls int

	// Statuses contains scripted status responses. Each call to
	// LatestStatus consumes the next one; when exhausted, the last is
	// returned repeatedly.
	Statuses []StatusResponse

	// statusIndex tracks current position in Statuses
	statusIndex int

	// StatusError, if set, will be returned by LatestStatus.
	StatusError error

	// Uploads records every UploadImage call.
	Uploads []RecordedUpload

	// UploadErrors are returned by successive UploadImage calls; once
	// exhausted, UploadImage succeeds. A nil entry means success.
	UploadErrors []error
}

// RecordedUpload captures one UploadImage invocation.
type RecordedUpload struct {
	UID    string
	Upload ImageUpload
}

// NewFakeClient creates a FakeClient for testing.
func NewFakeClient() *FakeClient {
	return &FakeClient{}
}

// ListDevices returns the scripted device list.
func (f *FakeClient) ListDevices(ctx context.Context) (DeviceList, error) {
	f.ListCalls++
	if f.ListError != nil {
		return DeviceList{}, f.ListError
	}
	return f.DeviceList, nil
}

// LatestStatus returns the next scripted status response.
func (f *FakeClient) LatestStatus(ctx context.Context) (StatusResponse, error) {
	if f.StatusError != nil {
		return StatusResponse{}, f.StatusError
	}
	if len(f.Statuses) == 0 {
		return StatusResponse{}, nil
	}
	s := f.Statuses[f.statusIndex]
	if f.statusIndex < len(f.Statuses)-1 {
		f.statusIndex++
	}
	return s, nil
}

// UploadImage records the upload and returns the next scripted error.
func (f *FakeClient) UploadImage(ctx context.Context, uid string, up ImageUpload) error {
	var err error
	if len(f.UploadErrors) > 0 {
		err = f.UploadErrors[0]
		f.UploadErrors = f.UploadErrors[1:]
	}
	if err != nil {
		return err
	}
	f.Uploads = append(f.Uploads, RecordedUpload{UID: uid, Upload: up})
	return nil
}

// Reset clears recorded calls and scripted positions.
func (f *FakeClient) Reset() {
	f.ListCalls = 0
	f.statusIndex = 0
	f.Uploads = nil
	f.UploadErrors = nil
	f.ListError = nil
	f.StatusError = nil
}
