package fsm

// FSM States for the bot
//
// State Transitions for Channel Post Bot:
//
// Post Composition Flow:
//   StateMainMenu -> StateURLSelection (via "insert_post")
//   StateURLSelection -> StateLabelSelection (via url pick)
//   StateURLSelection -> StateAddURL (via "new_url", flow=compose)
//   StateLabelSelection -> StateTextPrompt (via label pick)
//   StateLabelSelection -> StateAddLabel (via "new_label", flow=compose)
//   StateTextPrompt -> StateImagePrompt (via text input or "skip_text")
//   StateImagePrompt -> StateConfirmPost (via photo or "skip_image")
//   StateConfirmPost -> StateMainMenu (via "confirm_post" publish or "cancel_post")
//
// Catalog Management Flow:
//   StateMainMenu -> StateCatalogMenu (via "manage_catalog")
//   StateCatalogMenu -> StateAddURL/StateAddLabel (via "new_url"/"new_label", flow=catalog)
//   StateAddURL/StateAddLabel -> StateCatalogMenu (via text input)
//   StateCatalogMenu -> StateViewURLs/StateViewLabels (via "manage_urls"/"manage_labels")
//   StateViewURLs -> StateEditURL (via "edit_url:<id>")
//   StateEditURL -> StateViewURLs (via text input)
//   StateViewURLs -> StateViewURLs (via "delete_url:<id>", list refreshed)
//
// Admin Management Flow (owner only):
//   StateMainMenu -> StateAdminMenu (via "manage_admins")
//   StateAdminMenu -> StateAddAdmin (via "add_admin")
//   StateAddAdmin -> StateAdminMenu (via numeric id input)
//   StateAdminMenu -> StateViewAdmins (via "view_admins")
//   StateViewAdmins -> StateViewAdmins (via "remove_admin:<id>", list refreshed)
//
// Cancel Command:
//   Any state -> StateMainMenu (via /cancel or "cancel" button, draft discarded)

const (
	StateMainMenu = "main_menu"

	StateAdminMenu  = "admin_menu"
	StateAddAdmin   = "add_admin_enter_id"
	StateViewAdmins = "view_admins"

	StateCatalogMenu = "catalog_menu"
	StateAddURL      = "add_url_enter_text"
	StateAddLabel    = "add_label_enter_text"
	StateViewURLs    = "view_urls"
	StateEditURL     = "edit_url_enter_text"
	StateViewLabels  = "view_labels"
	StateEditLabel   = "edit_label_enter_text"

	StateURLSelection   = "url_selection"
	StateLabelSelection = "label_selection"
	StateTextPrompt     = "text_prompt"
	StateImagePrompt    = "image_prompt"
	StateConfirmPost    = "confirm_post"
)
