package llm

import (
	"encoding/json"
	"strings"

	"github.com/kaptinlin/jsonrepair"
	"github.com/rotisserie/eris"

	"github.com/sells-group/contact-scout/internal/model"
)

// parseVerifiedSite interprets the site-verification response. The model is
// asked to return a bare URL or "NOT_FOUND"; anything without an http(s)
// scheme is treated as not found.
func parseVerifiedSite(out string) string {
	out = strings.TrimSpace(strings.Trim(out, "\"'`"))
	if out == "" || strings.Contains(out, "NOT_FOUND") {
		return ""
	}
	if !strings.HasPrefix(out, "http://") && !strings.HasPrefix(out, "https://") {
		return ""
	}
	// Guard against trailing prose after the URL.
	if i := strings.IndexAny(out, " \n\t"); i > 0 {
		out = out[:i]
	}
	return out
}

// rawContactInfo mirrors the JSON shape requested from the model. The
// department-contacts values may come back as non-strings, so they are
// decoded loosely and stringified.
type rawContactInfo struct {
	Phone        string         `json:"phone"`
	Fax          string         `json:"fax"`
	Email        string         `json:"email"`
	Address      string         `json:"address"`
	City         string         `json:"city"`
	State        string         `json:"state"`
	ZipCode      string         `json:"zip_code"`
	DeptContacts map[string]any `json:"department_contacts"`
}

// parseContactInfo decodes the extraction response into a ContactInfo.
// Responses wrapped in code fences or with minor JSON damage are repaired
// before the decode; an undecodable response is a non-retryable failure.
func parseContactInfo(out string) (*model.ContactInfo, error) {
	payload := stripCodeFence(out)

	var raw rawContactInfo
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		repaired, repErr := jsonrepair.JSONRepair(payload)
		if repErr != nil {
			return nil, eris.Wrap(err, "llm: parse contact JSON")
		}
		if err := json.Unmarshal([]byte(repaired), &raw); err != nil {
			return nil, eris.Wrap(err, "llm: parse repaired contact JSON")
		}
	}

	info := &model.ContactInfo{
		Phone:   raw.Phone,
		Fax:     raw.Fax,
		Email:   raw.Email,
		Address: raw.Address,
		City:    raw.City,
		State:   raw.State,
		ZipCode: raw.ZipCode,
	}
	if len(raw.DeptContacts) > 0 {
		info.DeptContacts = make(map[string]string, len(raw.DeptContacts))
		for k, v := range raw.DeptContacts {
			info.DeptContacts[k] = stringify(v)
		}
	}
	return info, nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
