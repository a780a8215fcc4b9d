package models

type UnknownUser struct {
	Login    *string `json:"login"`
	Password *string `json:"password"`
	Tenant   *string `json:"tenant,omitempty"`
}

type User struct {
	ID     string
	Login  string
	Hash   string
	Tenant string
}
