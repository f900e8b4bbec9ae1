// Package apiconnect holds the Connect handler and client constructors of the
// splitledger services. Messages are the plain structs of package api,
// carried by a JSON codec registered under the "json" name.
package apiconnect

import (
	"bytes"
	"encoding/json"
	"strings"

	"connectrpc.com/connect"
)

// Codec marshals api messages with encoding/json. Unknown fields are rejected.
type Codec struct{}

var _ connect.Codec = Codec{}

func (Codec) Name() string { return "json" }

func (Codec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (Codec) Unmarshal(data []byte, msg any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(msg)
}

func handlerOptions(opts []connect.HandlerOption) connect.HandlerOption {
	return connect.WithHandlerOptions(append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)...)
}

func clientOptions(opts []connect.ClientOption) connect.ClientOption {
	return connect.WithClientOptions(append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)...)
}

func trimBase(baseURL string) string {
	return strings.TrimRight(baseURL, "/")
}
