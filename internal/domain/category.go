package domain

// All is the selector value meaning "no constraint on this field".
const All = "all"

type Category struct {
	Value string `json:"value"`
	Label string `json:"label"`
}
