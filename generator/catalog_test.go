package generator

import (
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	offsetPaginator     = `{"type": "offset", "param": "offset"}`
	pageNumberPaginator = `{"type": "page_number", "param": "page", "limit_param": "per_page", "limit": 100}`
	jsonLinkPaginator   = `{"type": "json_link", "next_url_path": "links.next"}`
)

func setupCatalogTest(t *testing.T) map[string]string {
	t.Helper()

	generator, data := setupDocumentTest(t, catalogDocument, nil)

	result, err := generator.Generate(data)
	require.NoError(t, err)

	return files(result)
}

func TestGenerator_Generate_Catalog(t *testing.T) {
	content := setupCatalogTest(t)

	tests := []struct {
		name     string
		file     string
		expected []string
		absent   []string
	}{
		{
			name: "parameters named like request locals",
			file: "catalog/api/products/list_items.py",
			expected: []string{
				`credentials: BasicCredentials,`,
				`debug: bool,`,
				`headers: Union[Unset, None, str] = UNSET,`,
				`params: Union[Unset, None, str] = UNSET,`,
				`_params["headers"] = headers`,
				`_params["params"] = params`,
				`"headers": _headers,`,
				`"cookies": _cookies,`,
			},
			absent: []string{"\n    headers: Dict", "\n    params: Dict", `"headers": headers,`},
		},
		{
			name: "dict query parameter",
			file: "catalog/api/products/list_items.py",
			expected: []string{
				"    if filter is not None and not isinstance(filter, Unset):\n        _params.update(filter)",
			},
		},
		{
			name: "boolean header and cookie",
			file: "catalog/api/products/list_items.py",
			expected: []string{
				"    if x_trace is not None and not isinstance(x_trace, Unset):\n        _headers[\"X-Trace\"] = \"true\" if x_trace else \"false\"",
				`    _cookies["debug"] = "true" if debug else "false"`,
			},
		},
		{
			name: "form body",
			file: "catalog/api/products/submit_form.py",
			expected: []string{
				`credentials: QueryKeyCredentials,`,
				`"method": "post",`,
				`_kwargs["data"] = data`,
			},
		},
		{
			name: "multipart body",
			file: "catalog/api/products/upload_item.py",
			expected: []string{
				`multipart_data: Dict[str, Any],`,
				`_kwargs["files"] = {key: value.to_tuple() if isinstance(value, File) else (None, str(value)) for key, value in multipart_data.items()}`,
			},
		},
		{
			name: "http basic scheme",
			file: "catalog/security/basic.py",
			expected: []string{
				`(HttpBasicCredentialsBase):`,
				`    pass`,
			},
		},
		{
			name: "oauth2 scheme",
			file: "catalog/security/oauth.py",
			expected: []string{
				`(OAuth2CredentialsBase):`,
				`token_url: ClassVar[str] = "https://auth.example.com/token"`,
				`scopes: ClassVar[List[str]] = ["read:items", "write:items"]`,
			},
		},
		{
			name: "api key in query",
			file: "catalog/security/query_key.py",
			expected: []string{
				`location: ClassVar[str] = "query"`,
				`parameter_name: ClassVar[str] = "api_key"`,
			},
		},
		{
			name: "api key in cookie",
			file: "catalog/security/cookie_key.py",
			expected: []string{
				`location: ClassVar[str] = "cookie"`,
				`parameter_name: ClassVar[str] = "session"`,
			},
		},
		{
			name: "paginators without totals",
			file: "catalog/__init__.py",
			expected: []string{
				`paginator=` + offsetPaginator + `, data_json_path="data")`,
				`paginator=` + pageNumberPaginator + `, data_json_path="items")`,
				`paginator=` + jsonLinkPaginator + `, data_json_path="results")`,
			},
			absent: []string{`"total_path"`},
		},
		{
			name: "secrets of every scheme",
			file: ".dlt/secrets.toml",
			expected: []string{
				`username = "please set me up!"`,
				`password = "please set me up!"`,
				`token = "please set me up!"`,
				`api_key = "please set me up!"`,
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.Contains(t, content, test.file)

			for _, expected := range test.expected {
				assert.Contains(t, content[test.file], expected)
			}

			for _, absent := range test.absent {
				assert.NotContains(t, content[test.file], absent)
			}
		})
	}
}

var runtimeStubs = map[string]string{
	"dlt/__init__.py":                      "",
	"dlt/common/__init__.py":               "",
	"dlt/common/typing.py":                 "TSecretStrValue = str\n",
	"dlt/common/configuration/__init__.py": "",
	"dlt/common/configuration/specs.py":    "class CredentialsConfiguration:\n    pass\n\n\ndef configspec(cls):\n    return cls\n",
	"dlt/sources/__init__.py":              "",
	"dlt/sources/helpers/__init__.py":      "",
	"dlt/sources/helpers/requests.py":      "def request(**kwargs):\n    raise NotImplementedError()\n\n\ndef post(*args, **kwargs):\n    raise NotImplementedError()\n",
	"catalog/__init__.py":                  "",
	"catalog/api/__init__.py":              "",
	"catalog/api/products/__init__.py":     "",
	"catalog/security/__init__.py":         "",
}

const runtimeScript = `
from dlt.sources.helpers import requests

from catalog import utils
from catalog.api.products import list_items


class Response:
    def __init__(self, payload):
        self.status_code = 200
        self.content = b""
        self.links = {}
        self.payload = payload

    def json(self):
        return self.payload


class Credentials:
    def to_http_params(self):
        return {"headers": {"Authorization": "Basic dXNlcjpwYXNz"}, "cookies": {}, "params": {}}


def serve(responses, key):
    calls = []

    def request(**kwargs):
        calls.append(dict(kwargs["params"]))
        return Response(responses[key(kwargs)])

    requests.request = request
    return calls


def ids(pages):
    return [record["id"] for page in pages for record in page]


kwargs = list_items._get_kwargs(base_url="https://x", credentials=Credentials(), debug=True, x_trace=False, headers="H", params="P")
assert kwargs["url"] == "https://x/items", kwargs
assert kwargs["params"] == {"headers": "H", "params": "P"}, kwargs
assert kwargs["headers"] == {"X-Trace": "false", "Authorization": "Basic dXNlcjpwYXNz"}, kwargs
assert kwargs["cookies"] == {"debug": "true"}, kwargs

calls = serve({0: {"data": [{"id": 1}, {"id": 2}]}, 2: {"data": [{"id": 3}]}, 3: {"data": []}}, lambda kw: kw["params"]["offset"])
assert ids(utils.paginate(kwargs, paginator=$OFFSET, data_json_path="data")) == [1, 2, 3]
assert [call["offset"] for call in calls] == [0, 2, 3], calls
assert calls[0]["headers"] == "H", calls

calls = serve({1: {"items": [{"id": 1}, {"id": 2}]}, 2: {"items": [{"id": 3}]}}, lambda kw: kw["params"]["page"])
pages = {"method": "get", "url": "https://x/pages", "params": {"per_page": 2}}
assert ids(utils.paginate(pages, paginator=$PAGE_NUMBER, data_json_path="items")) == [1, 2, 3]
assert [call["page"] for call in calls] == [1, 2], calls

serve({
    "https://x/feed": {"results": [{"id": 1}], "links": {"next": "https://x/feed?page=2"}},
    "https://x/feed?page=2": {"results": [{"id": 2}], "links": {"next": None}},
}, lambda kw: kw["url"])
feed = {"method": "get", "url": "https://x/feed", "params": {}}
assert ids(utils.paginate(feed, paginator=$JSON_LINK, data_json_path="results")) == [1, 2]

print("ok")
`

// TestGenerator_Generate_Runtime runs the generated request and pagination helpers
// against stub dlt modules.
func TestGenerator_Generate_Runtime(t *testing.T) {
	python, err := exec.LookPath("python3")
	if err != nil {
		t.Skip("python3 is not in PATH")
	}

	content := setupCatalogTest(t)
	dir := t.TempDir()

	write := func(name string, data string) {
		target := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(target), 0o755))
		require.NoError(t, os.WriteFile(target, []byte(data), 0o600))
	}

	for name, data := range content {
		if strings.HasPrefix(name, "catalog/") && path.Ext(name) == ".py" && path.Base(name) != FileInit {
			write(name, data)
		}
	}

	for name, data := range runtimeStubs {
		write(name, data)
	}

	write("check.py", strings.NewReplacer(
		"$OFFSET", offsetPaginator,
		"$PAGE_NUMBER", pageNumberPaginator,
		"$JSON_LINK", jsonLinkPaginator,
	).Replace(runtimeScript))

	command := exec.Command(python, "check.py")
	command.Dir = dir

	output, err := command.CombinedOutput()
	require.NoError(t, err, string(output))
	assert.Equal(t, "ok", strings.TrimSpace(string(output)))
}
