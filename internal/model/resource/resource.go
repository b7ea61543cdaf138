package resource

// Resource is a crisis or support helpline exposed to the frontend.
type Resource struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Contact      string `json:"contact"`
	Description  string `json:"description,omitempty"`
	Availability string `json:"availability,omitempty"`
	Crisis       bool   `json:"crisis"`
}

// Seed provides the default helpline directory. The first crisis entry
// is the one referenced by the unreachable-service fallback message.
func Seed() []Resource {
	return []Resource{
		{
			ID:           "crisis-lifeline",
			Name:         "988 Suicide & Crisis Lifeline",
			Contact:      "Call or text 988",
			Description:  "Free, confidential support for people in distress.",
			Availability: "24/7",
			Crisis:       true,
		},
		{
			ID:           "crisis-text-line",
			Name:         "Crisis Text Line",
			Contact:      "Text HOME to 741741",
			Description:  "Text-based crisis counseling with trained volunteers.",
			Availability: "24/7",
			Crisis:       true,
		},
		{
			ID:           "samhsa-helpline",
			Name:         "SAMHSA National Helpline",
			Contact:      "1-800-662-4357",
			Description:  "Treatment referral and information service for mental health and substance use.",
			Availability: "24/7",
			Crisis:       false,
		},
		{
			ID:           "warmline-directory",
			Name:         "Peer Warmline Directory",
			Contact:      "https://warmline.org",
			Description:  "Non-crisis peer support lines staffed by people with lived experience.",
			Availability: "Varies by line",
			Crisis:       false,
		},
	}
}
