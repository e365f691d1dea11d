package graph

import (
	"encoding/json"
	"time"
)

// DirectoryObject is the base shape shared by all directory resources.
// Membership and ownership endpoints return heterogeneous collections
// of these; ODataType tells the concrete kind apart.
type DirectoryObject struct {
	ID          string `json:"id"                    yaml:"id"`
	ODataType   string `json:"@odata.type,omitempty" yaml:"type,omitempty"`
	DisplayName string `json:"displayName,omitempty" yaml:"displayName,omitempty"`
}

// User represents a directory user object.
type User struct {
	ID                string     `json:"id"                          yaml:"id"`
	DisplayName       string     `json:"displayName,omitempty"       yaml:"displayName,omitempty"`
	UserPrincipalName string     `json:"userPrincipalName,omitempty" yaml:"userPrincipalName,omitempty"`
	Mail              string     `json:"mail,omitempty"              yaml:"mail,omitempty"`
	GivenName         string     `json:"givenName,omitempty"         yaml:"givenName,omitempty"`
	Surname           string     `json:"surname,omitempty"           yaml:"surname,omitempty"`
	JobTitle          string     `json:"jobTitle,omitempty"          yaml:"jobTitle,omitempty"`
	Department        string     `json:"department,omitempty"        yaml:"department,omitempty"`
	AccountEnabled    *bool      `json:"accountEnabled,omitempty"    yaml:"accountEnabled,omitempty"`
	CreatedDateTime   *time.Time `json:"createdDateTime,omitempty"   yaml:"createdDateTime,omitempty"`
}

// UserUpdate carries the writable user properties for a PATCH. Only
// non-nil fields are sent.
type UserUpdate struct {
	DisplayName    *string `json:"displayName,omitempty"    yaml:"displayName,omitempty"`
	Mail           *string `json:"mail,omitempty"           yaml:"mail,omitempty"`
	JobTitle       *string `json:"jobTitle,omitempty"       yaml:"jobTitle,omitempty"`
	Department     *string `json:"department,omitempty"     yaml:"department,omitempty"`
	AccountEnabled *bool   `json:"accountEnabled,omitempty" yaml:"accountEnabled,omitempty"`
	UsageLocation  *string `json:"usageLocation,omitempty"  yaml:"usageLocation,omitempty"`
}

// Group represents a directory group object.
type Group struct {
	ID              string     `json:"id"                        yaml:"id"`
	DisplayName     string     `json:"displayName,omitempty"     yaml:"displayName,omitempty"`
	Description     string     `json:"description,omitempty"     yaml:"description,omitempty"`
	Mail            string     `json:"mail,omitempty"            yaml:"mail,omitempty"`
	MailEnabled     *bool      `json:"mailEnabled,omitempty"     yaml:"mailEnabled,omitempty"`
	SecurityEnabled *bool      `json:"securityEnabled,omitempty" yaml:"securityEnabled,omitempty"`
	GroupTypes      []string   `json:"groupTypes,omitempty"      yaml:"groupTypes,omitempty"`
	CreatedDateTime *time.Time `json:"createdDateTime,omitempty" yaml:"createdDateTime,omitempty"`
}

// Device represents a directory device object.
type Device struct {
	ID                            string     `json:"id"                                      yaml:"id"`
	DeviceID                      string     `json:"deviceId,omitempty"                      yaml:"deviceId,omitempty"`
	DisplayName                   string     `json:"displayName,omitempty"                   yaml:"displayName,omitempty"`
	OperatingSystem               string     `json:"operatingSystem,omitempty"               yaml:"operatingSystem,omitempty"`
	OperatingSystemVersion        string     `json:"operatingSystemVersion,omitempty"        yaml:"operatingSystemVersion,omitempty"`
	TrustType                     string     `json:"trustType,omitempty"                     yaml:"trustType,omitempty"`
	AccountEnabled                *bool      `json:"accountEnabled,omitempty"                yaml:"accountEnabled,omitempty"`
	IsCompliant                   *bool      `json:"isCompliant,omitempty"                   yaml:"isCompliant,omitempty"`
	IsManaged                     *bool      `json:"isManaged,omitempty"                     yaml:"isManaged,omitempty"`
	RegisteredDateTime            *time.Time `json:"registeredDateTime,omitempty"            yaml:"registeredDateTime,omitempty"`
	ApproximateLastSignInDateTime *time.Time `json:"approximateLastSignInDateTime,omitempty" yaml:"approximateLastSignInDateTime,omitempty"`
}

// DeviceLocalCredentials is the device local credential record from the
// directory, with the administrator password already decoded.
type DeviceLocalCredentials struct {
	ID                 string     `json:"id"                           yaml:"id"`
	DeviceName         string     `json:"deviceName,omitempty"         yaml:"deviceName,omitempty"`
	LastBackupDateTime *time.Time `json:"lastBackupDateTime,omitempty" yaml:"lastBackupDateTime,omitempty"`
	AccountName        string     `json:"accountName,omitempty"        yaml:"accountName,omitempty"`
	Password           string     `json:"-"                            yaml:"-"`
}

// ListResponse represents one page of a collection response.
type ListResponse[T any] struct {
	Context  string `json:"@odata.context,omitempty"  yaml:"-"`
	Count    *int64 `json:"@odata.count,omitempty"    yaml:"count,omitempty"`
	NextLink string `json:"@odata.nextLink,omitempty" yaml:"-"`
	Value    []T    `json:"value"                     yaml:"value"`
}

// HasNextPage reports whether the service advertised a further page.
func (r *ListResponse[T]) HasNextPage() bool {
	return r != nil && r.NextLink != ""
}

// UserList represents one page of user objects.
type UserList = ListResponse[User]

// GroupList represents one page of group objects.
type GroupList = ListResponse[Group]

// DeviceList represents one page of device objects.
type DeviceList = ListResponse[Device]

// BatchRequestItem is a single operation inside a $batch call.
type BatchRequestItem struct {
	ID        string            `json:"id"                  yaml:"id"`
	Method    string            `json:"method"              yaml:"method"`
	URL       string            `json:"url"                 yaml:"url"`
	Headers   map[string]string `json:"headers,omitempty"   yaml:"headers,omitempty"`
	Body      interface{}       `json:"body,omitempty"      yaml:"body,omitempty"`
	DependsOn []string          `json:"dependsOn,omitempty" yaml:"dependsOn,omitempty"`
}

// BatchRequest is the $batch envelope.
type BatchRequest struct {
	Requests []BatchRequestItem `json:"requests" yaml:"requests"`
}

// BatchResponseItem is the outcome of one batched operation.
type BatchResponseItem struct {
	ID      string            `json:"id"                yaml:"id"`
	Status  int               `json:"status"            yaml:"status"`
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body    json.RawMessage   `json:"body,omitempty"    yaml:"-"`
}

// BatchResponse is the $batch response envelope.
type BatchResponse struct {
	Responses []BatchResponseItem `json:"responses" yaml:"responses"`
}
