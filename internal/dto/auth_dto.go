package dto

import "encoding/json"

// TokenRequest carries the identity claims embedded in an issued token. Fields
// other than email and name are kept in Extra and signed into the token as is.
type TokenRequest struct {
	Email string                 `json:"email" validate:"required,email"`
	Name  string                 `json:"name" validate:"omitempty,max=255"`
	Extra map[string]interface{} `json:"-"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *TokenRequest) UnmarshalJSON(data []byte) error {
	type known TokenRequest
	var fields known
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var extra map[string]interface{}
	if err := json.Unmarshal(data, &extra); err != nil {
		return err
	}
	delete(extra, "email")
	delete(extra, "name")
	if len(extra) == 0 {
		extra = nil
	}

	*r = TokenRequest(fields)
	r.Extra = extra
	return nil
}

// StatusResponse is the body returned by the token endpoints.
type StatusResponse struct {
	Success bool `json:"success"`
}

// UploadResponse carries the public URL of an uploaded thumbnail.
type UploadResponse struct {
	URL string `json:"url"`
}
