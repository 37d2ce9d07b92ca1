package response

import (
	"errors"
	"testing"
)

func TestAppError(t *testing.T) {
	cause := errors.New("connection refused")
	cases := []struct {
		name       string
		err        *AppError
		want       string
		serverSide bool
	}{
		{name: "keyed with cause", err: WrapKeyedError(CodeBadGateway, "error.content_unavailable", "No se pudo cargar el contenido", cause), want: "No se pudo cargar el contenido: connection refused", serverSide: true},
		{name: "key only", err: WrapKeyedError(CodeNotFound, "error.product_not_found", "", nil), want: "error.product_not_found"},
		{name: "custom message", err: WrapError(CodeUnprocessable, "No se pudo crear el pedido: sin stock", nil), want: "No se pudo crear el pedido: sin stock"},
		{name: "unavailable", err: WrapKeyedError(CodeServiceUnavailable, "error.cart_storage_unavailable", "x", nil), want: "x", serverSide: true},
	}
	for _, tc := range cases {
		if got := tc.err.Error(); got != tc.want {
			t.Fatalf("%s: Error() = %q, want %q", tc.name, got, tc.want)
		}
		if tc.err.ServerSide() != tc.serverSide {
			t.Fatalf("%s: ServerSide() = %v, want %v", tc.name, !tc.serverSide, tc.serverSide)
		}
	}
	if !errors.Is(WrapError(CodeInternal, "boom", cause), cause) {
		t.Fatalf("AppError should unwrap to its cause")
	}
}
