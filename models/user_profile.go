package models

import "encoding/json"

// UserProfile defines the structure for user profiles served by the directory
type UserProfile struct {
	UserID    string    `json:"userId"`
	Nickname  string    `json:"nickname"`
	Major     string    `json:"major"`
	Skills    SkillList `json:"skills"`
	SelfIntro string    `json:"selfIntro"`
	ResumeURL string    `json:"resumeUrl"`
}

// DisplayName returns the nickname, or the raw user id when the profile is
// missing or incomplete.
func (p UserProfile) DisplayName() string {
	if p.Nickname != "" {
		return p.Nickname
	}
	return p.UserID
}

// SkillList is an ordered list of skill tags. Depending on which backend wrote
// the record, each entry arrives either as a plain string or as a typed value
// wrapper {"S": "<value>"}. Decoding accepts both forms and silently drops
// empty or non-string entries; a value that is not a list at all decodes to an
// empty list instead of failing the record.
type SkillList []string

func (s *SkillList) UnmarshalJSON(data []byte) error {
	*s = SkillList{}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}

	skills := make(SkillList, 0, len(raw))
	for _, entry := range raw {
		var plain string
		if err := json.Unmarshal(entry, &plain); err == nil {
			if plain != "" {
				skills = append(skills, plain)
			}
			continue
		}

		var wrapped struct {
			S string `json:"S"`
		}
		if err := json.Unmarshal(entry, &wrapped); err == nil && wrapped.S != "" {
			skills = append(skills, wrapped.S)
		}
	}

	*s = skills
	return nil
}
