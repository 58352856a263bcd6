package npc

// PersonalityProfile defines the tunable parameters for a RuleBrain.
type PersonalityProfile struct {
	Boldness   float64 `json:"boldness"`   // 0.0–1.0: willingness to take trump on a thin hand
	Thrift     float64 `json:"thrift"`     // 0.0–1.0: preference for saving high cards when losing
	Randomness float64 `json:"randomness"` // 0.0–1.0: decision noise
}

// NPCPersona defines a named NPC character.
type NPCPersona struct {
	ID    string             `json:"id"`
	Name  string             `json:"name"`
	Brain PersonalityProfile `json:"brain"`
}

// DefaultPersonas is used when no persona file is configured.
var DefaultPersonas = []*NPCPersona{
	{ID: "steady", Name: "Steady", Brain: PersonalityProfile{Boldness: 0.4, Thrift: 0.7, Randomness: 0.1}},
	{ID: "gambler", Name: "Gambler", Brain: PersonalityProfile{Boldness: 0.85, Thrift: 0.3, Randomness: 0.3}},
	{ID: "rock", Name: "Rock", Brain: PersonalityProfile{Boldness: 0.2, Thrift: 0.9, Randomness: 0.05}},
}
