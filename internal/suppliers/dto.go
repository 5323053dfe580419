package suppliers

type CreateSupplierRequest struct {
	Name            string   `json:"name" validate:"required,max=200"`
	Contact         string   `json:"contact" validate:"max=200"`
	Phone           string   `json:"phone" validate:"max=50"`
	MessagingHandle *string  `json:"messaging_handle,omitempty" validate:"omitempty,max=50"`
	Email           string   `json:"email" validate:"omitempty,email"`
	Website         string   `json:"website" validate:"max=200"`
	Address         string   `json:"address" validate:"max=300"`
	Categories      []string `json:"categories" validate:"dive,required,max=100"`
}

// UpdateSupplierRequest is a partial update; nil fields are left unchanged.
// id and registered_on are not patchable.
type UpdateSupplierRequest struct {
	Name            *string   `json:"name,omitempty" validate:"omitempty,max=200"`
	Contact         *string   `json:"contact,omitempty" validate:"omitempty,max=200"`
	Phone           *string   `json:"phone,omitempty" validate:"omitempty,max=50"`
	MessagingHandle *string   `json:"messaging_handle,omitempty" validate:"omitempty,max=50"`
	Email           *string   `json:"email,omitempty" validate:"omitempty,email"`
	Website         *string   `json:"website,omitempty" validate:"omitempty,max=200"`
	Address         *string   `json:"address,omitempty" validate:"omitempty,max=300"`
	Categories      *[]string `json:"categories,omitempty" validate:"omitempty,dive,required,max=100"`
	Active          *bool     `json:"active,omitempty"`
}
