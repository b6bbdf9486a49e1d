package constants

// Multipart form field names
const (
	// FormFieldImage1 is the first upload of a comparison request
	FormFieldImage1 = "image1"

	// FormFieldImage2 is the second upload of a comparison request
	FormFieldImage2 = "image2"

	// FormFieldImage is the single upload of an attribute request
	FormFieldImage = "image"
)

// Envelope messages
const (
	MessageCompareOK    = "face comparison completed successfully"
	MessageAttributesOK = "age and gender analysis completed successfully"
	MessageInsertOK     = "neighborhood inserted successfully"
	MessageUpdateOK     = "neighborhood updated successfully"
	MessageDeleteOK     = "neighborhood removed successfully"
	MessageListOK       = "neighborhoods retrieved successfully"
	MessageGetOK        = "neighborhood retrieved successfully"
	MessageWebhookOK    = "telemetry received"
)
