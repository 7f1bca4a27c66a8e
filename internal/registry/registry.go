package registry

import (
	"fmt"
	"sort"
	"strings"

	"github.com/unifisync/unifisync/internal/model"
	syncerrors "github.com/unifisync/unifisync/pkg/errors"
)

func keyExtractor(it model.Item) (string, bool) {
	key, ok := it["key"].(string)
	return key, ok && key != ""
}

// catalog maps resource kinds to their descriptors. Settings address
// distinct GET and SET endpoints, so the setting descriptor carries a
// dedicated getter; devices are listed from /stat/device but written through
// /rest/device.
var catalog = map[string]*Descriptor{
	"site": {
		ParamName: "site",
		Request: RequestTemplate{
			Path:       "/sites",
			PathPrefix: "/api/",
			Site:       "self",
			Proxy:      "network",
		},
	},
	"setting": {
		ParamName: "setting",
		Request:   RequestTemplate{Path: "/set/setting", Proxy: "network"},
		idOf:      keyExtractor,
		getter: &Descriptor{
			ParamName: "setting",
			Request:   RequestTemplate{Path: "/get/setting", Proxy: "network"},
			idOf:      keyExtractor,
		},
	},
	"device": {
		ParamName: "device",
		Request:   RequestTemplate{Path: "/rest/device", Proxy: "network"},
		getter: &Descriptor{
			ParamName: "device",
			Request:   RequestTemplate{Path: "/stat/device", Proxy: "network"},
		},
	},
	"networkconf": {
		ParamName: "networkconf",
		Request:   RequestTemplate{Path: "/rest/networkconf", Proxy: "network"},
	},
	"wlanconf": {
		ParamName: "wlanconf",
		Request:   RequestTemplate{Path: "/rest/wlanconf", Proxy: "network"},
	},
	"portconf": {
		ParamName: "portconf",
		Request:   RequestTemplate{Path: "/rest/portconf", Proxy: "network"},
	},
	"apgroups": {
		ParamName: "apgroups",
		Request:   RequestTemplate{Path: "/apgroups", PathPrefix: "/v2/api/site/"},

		resultPath: []string{},
	},
	"ccode": {
		ParamName: "ccode",
		Request:   RequestTemplate{Path: "/stat/ccode", Proxy: "network"},
	},
}

// Lookup resolves a resource kind to its descriptor. A plural kind name
// (networkconfs) derives the list getter of the singular kind by suffix
// convention.
func Lookup(kind string) (*Descriptor, error) {
	if desc, ok := catalog[kind]; ok {
		return desc, nil
	}
	if singular, ok := strings.CutSuffix(kind, "s"); ok {
		if desc, ok := catalog[singular]; ok {
			return desc.Getter(), nil
		}
	}
	return nil, syncerrors.NewConfigError(kind, "no API descriptor registered for this resource kind",
		fmt.Errorf("unknown kind %q", kind))
}

// Kinds lists all registered resource kinds in sorted order.
func Kinds() []string {
	kinds := make([]string, 0, len(catalog))
	for kind := range catalog {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}
