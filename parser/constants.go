package parser

// Media types
const (
	MediaJSON       = "application/json"
	MediaJSONSuffix = "+json"
	MediaForm       = "application/x-www-form-urlencoded"
	MediaMultipart  = "multipart/form-data"
)

// OpenAPI Type Constants
const (
	TypeString  = "string"
	TypeInteger = "integer"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
	TypeObject  = "object"
	TypeArray   = "array"
	TypeNull    = "null"
)

// OpenAPI Format Constants
const (
	FormatDate     = "date"
	FormatDateTime = "date-time"
	FormatBinary   = "binary"
)

// Body parameter names
const (
	BodyJSON      = "json_body"
	BodyForm      = "data"
	BodyMultipart = "multipart_data"
)

const DefaultTag = "default"

const defaultPageSize = 100

// Names used to recognise records lists and pagination fields in responses
var (
	preferredListNames = []string{"data", "items", "results", "records", "entries", "values"}

	offsetParams     = []string{"offset", "skip", "start"}
	pageParams       = []string{"page", "page_number", "pageNumber"}
	limitParams      = []string{"limit", "page_size", "pageSize", "per_page", "perPage", "count", "size"}
	cursorParams     = []string{"cursor", "page_token", "pageToken", "next_token", "continuation_token", "starting_after", "after"}
	cursorTokenNames = []string{"next_cursor", "nextCursor", "next_page_token", "nextPageToken", "next_token", "nextToken", "cursor", "continuation_token", "nextPage"}
	nextLinkNames    = []string{"next", "next_url", "nextUrl", "next_page_url", "nextPageUrl", "next_link", "nextLink"}
	totalNames       = []string{"total", "total_count", "totalCount", "count"}
	totalPagesNames  = []string{"total_pages", "totalPages", "pages", "page_count", "pageCount"}
	methodsOrder     = []string{"GET", "HEAD", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "TRACE"}
)
