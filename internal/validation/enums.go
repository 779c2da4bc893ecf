package validation

// Common enum values - these MUST match DB CHECK constraints in db.go.
var (
	ValidOwnershipStatuses  = []string{"owned", "preorder", "wishlist"}
	ValidWardrobeOwnership  = []string{"owned", "preorder"}
	ValidPaymentStatuses    = []string{"deposit_only", "full_paid"}
	ValidWardrobeCategories = []string{"dress", "shoes", "wig", "eyes", "accessory", "outfit", "other"}
	ValidPhotoEntityTypes   = []string{"head", "body"}
	ValidPhotoTypes         = []string{"official", "arrival", "custom"}
)

// Per-field maximum string lengths.
const (
	MaxNameLength  = 200
	MaxNotesLength = 2000
	MaxPathLength  = 500
)
