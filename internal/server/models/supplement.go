package models

import "time"

type Supplement struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	Name      string `json:"name"`
	Dosage    string `json:"dosage"`
	Frequency string `json:"frequency"`
}

// SupplementEffect is a reported effect. SupplementID is optional.
type SupplementEffect struct {
	ID                int64     `json:"id"`
	UserID            int64     `json:"user_id"`
	SupplementID      *int64    `json:"supplement_id"`
	EffectType        string    `json:"effect_type"`
	EffectDescription string    `json:"effect_description"`
	Timestamp         time.Time `json:"timestamp"`
}

// SupplementWithEffect is one row of the supplements LEFT JOIN effects view;
// the effect columns are nil for supplements with no reported effect.
type SupplementWithEffect struct {
	SupplementID      int64   `json:"supplement_id"`
	Name              string  `json:"name"`
	Dosage            string  `json:"dosage"`
	Frequency         string  `json:"frequency"`
	EffectType        *string `json:"effect_type"`
	EffectDescription *string `json:"effect_description"`
}
