package transport

// CredentialsRequest carries registration and login payloads. The
// password field is accepted but the registry never verifies it.
type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type TaskCreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	DueDate     string `json:"due_date"`
}
