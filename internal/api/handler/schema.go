package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth & account ---

type registerRequest struct {
	Name     string `json:"name"     validate:"required,max=100"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type tokenRequest struct {
	Token string `json:"token" validate:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Token    string `json:"token"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type updateProfileRequest struct {
	Name  *string `json:"name"  validate:"omitempty,max=100"`
	Image *string `json:"image" validate:"omitempty,max=2048"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword"     validate:"required"`
}

type userResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Image         string `json:"image,omitempty"`
	Role          string `json:"role"`
	EmailVerified string `json:"emailVerified,omitempty"`
	CreatedAt     string `json:"createdAt"`
}

type authResponse struct {
	Token string        `json:"token,omitempty"`
	User  *userResponse `json:"user,omitempty"`
}

type usersPageResponse struct {
	Users      []userResponse `json:"users"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"totalPages"`
}

// --- Listings ---

type createListingRequest struct {
	Title          string   `json:"title"          validate:"required,max=200"`
	Description    string   `json:"description"    validate:"max=10000"`
	Price          float64  `json:"price"          validate:"gte=0"`
	Address        string   `json:"address"        validate:"required,max=500"`
	Bedrooms       int      `json:"bedrooms"       validate:"gte=0"`
	Bathrooms      float64  `json:"bathrooms"      validate:"gte=0"`
	AvailableFrom  string   `json:"availableFrom"  validate:"required"`
	AvailableUntil string   `json:"availableUntil" validate:"required"`
	Amenities      []string `json:"amenities"`
	Images         []string `json:"images"         validate:"max=20"`
	Published      bool     `json:"published"`
	IsDraft        bool     `json:"isDraft"`
}

type updateListingRequest struct {
	Title          *string   `json:"title"          validate:"omitempty,max=200"`
	Description    *string   `json:"description"    validate:"omitempty,max=10000"`
	Price          *float64  `json:"price"          validate:"omitempty,gte=0"`
	Address        *string   `json:"address"        validate:"omitempty,max=500"`
	Bedrooms       *int      `json:"bedrooms"       validate:"omitempty,gte=0"`
	Bathrooms      *float64  `json:"bathrooms"      validate:"omitempty,gte=0"`
	AvailableFrom  *string   `json:"availableFrom"`
	AvailableUntil *string   `json:"availableUntil"`
	Amenities      *[]string `json:"amenities"`
	Images         *[]string `json:"images"`
	Published      *bool     `json:"published"`
	IsDraft        *bool     `json:"isDraft"`
}

type listingResponse struct {
	ID             string        `json:"id"`
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	Price          float64       `json:"price"`
	Address        string        `json:"address"`
	Bedrooms       int           `json:"bedrooms"`
	Bathrooms      float64       `json:"bathrooms"`
	AvailableFrom  string        `json:"availableFrom"`
	AvailableUntil string        `json:"availableUntil"`
	Amenities      []string      `json:"amenities"`
	Images         []string      `json:"images"`
	Published      bool          `json:"published"`
	IsDraft        bool          `json:"isDraft"`
	OwnerID        string        `json:"ownerId"`
	CreatedAt      string        `json:"createdAt"`
	UpdatedAt      string        `json:"updatedAt"`
	Owner          ownerResponse `json:"owner"`
	IsSaved        bool          `json:"isSaved"`
}

type ownerResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Image string `json:"image,omitempty"`
}

type listingsResponse struct {
	Listings []listingResponse `json:"listings"`
}

type createReportRequest struct {
	Reason  string `json:"reason"  validate:"required,max=200"`
	Details string `json:"details" validate:"max=2000"`
}

type reportResponse struct {
	ID         string `json:"id"`
	Reason     string `json:"reason"`
	Details    string `json:"details,omitempty"`
	ReporterID string `json:"reporterId"`
	ListingID  string `json:"listingId"`
	Status     string `json:"status"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
}

type resolveReportRequest struct {
	Action    string `json:"action"    validate:"required,oneof=resolve dismiss"`
	Unpublish bool   `json:"unpublish"`
}

// --- Messaging ---

type sendMessageRequest struct {
	ReceiverID string `json:"receiverId" validate:"required"`
	Content    string `json:"content"    validate:"required"`
	ListingID  string `json:"listingId"`
}

type messageResponse struct {
	ID         string `json:"id"`
	Content    string `json:"content"`
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId"`
	ListingID  string `json:"listingId,omitempty"`
	Read       bool   `json:"read"`
	CreatedAt  string `json:"createdAt"`
}

type conversationResponse struct {
	OtherUser   ownerResponse   `json:"otherUser"`
	LastMessage messageResponse `json:"lastMessage"`
	UnreadCount int64           `json:"unreadCount"`
}

type markReadResponse struct {
	Updated int64 `json:"updated"`
}

type unreadCountResponse struct {
	Unread int64 `json:"unread"`
}
