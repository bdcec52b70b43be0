package core

import (
	"context"
	"fmt"
	"reflect"
)

/**--------------------------------------------
 *               COMMAND BUS
 *---------------------------------------------**/

// Command, bir eylemi gerçekleştirmek için verilen bir talimatı temsil eder.
// İzlenebilirlik ve idempotency (tekrarlanabilirlik) için benzersiz bir ID'ye sahip olmalıdır.
type Command interface {
	CommandID() string
}

type CommandHandler[C Command] interface {
	Handle(ctx context.Context, cmd C) error
}

// CommandHandlerFunc: Bus'ın içeride sakladığı, tipi silinmiş (Type-Erased) fonksiyon.
// Middleware'ler bu imzayı kullanır.
type CommandHandlerFunc func(ctx context.Context, cmd any) error

// CommandMiddleware: Handler'ı sarmalayan fonksiyon tipi.
type CommandMiddleware func(next CommandHandlerFunc) CommandHandlerFunc

// CommandBus, komutları dağıtmak (dispatch) için arayüzü tanımlar.
type CommandBus interface {
	Dispatch(ctx context.Context, cmd Command) error
	Register(cmdType reflect.Type, handler CommandHandlerFunc) error
	Use(middleware ...CommandMiddleware)
}

// RegisterCommand, tip güvenli bir komut işleyicisini kaydetmek için kullanılan jenerik bir yardımcı fonksiyondur.
func RegisterCommand[C Command, H CommandHandler[C]](bus CommandBus, handler H) error {
	cmdType := reflect.TypeOf((*C)(nil)).Elem()
	adapter := func(ctx context.Context, c any) error {
		// Type Assertion: Burası güvenlidir çünkü Register sırasında tip kontrolü yaptık.
		return handler.Handle(ctx, c.(C))
	}
	return bus.Register(cmdType, adapter)
}

/**--------------------------------------------
 *               QUERY BUS
 *---------------------------------------------**/

// Query, bilgi almak için yapılan bir isteği temsil eder.
type Query interface {
	QueryID() string
}
type QueryResponse interface{}

// QueryHandler, belirli bir sorgunun nasıl işleneceğini tanımlar.
type QueryHandler[Q Query, R QueryResponse] interface {
	Handle(ctx context.Context, query Q) (R, error)
}

// QueryHandlerFunc, sorgu işleyicileri için ham fonksiyon imzasıdır.
type QueryHandlerFunc func(context.Context, Query) (QueryResponse, error)

// QueryMiddleware, sorgu işleyicilerini sarmalayan fonksiyon tipidir.
type QueryMiddleware func(next QueryHandlerFunc) QueryHandlerFunc

// QueryBus, sorguları çalıştırmak için arayüzü tanımlar.
type QueryBus interface {
	Execute(ctx context.Context, query Query) (QueryResponse, error)
	Register(queryType reflect.Type, handler QueryHandlerFunc) error
	Use(middleware ...QueryMiddleware)
}

// RegisterQuery, tip güvenli bir sorgu işleyicisini kaydetmek için kullanılan jenerik bir yardımcı fonksiyondur.
func RegisterQuery[Q Query, R QueryResponse](bus QueryBus, handler QueryHandler[Q, R]) error {
	queryType := reflect.TypeOf((*Q)(nil)).Elem()
	adapter := func(ctx context.Context, q Query) (QueryResponse, error) {
		return handler.Handle(ctx, q.(Q))
	}
	return bus.Register(queryType, adapter)
}

// Ask, sorgu sonucunu tip güvenli şekilde almak için kullanılır.
func Ask[R QueryResponse](ctx context.Context, bus QueryBus, query Query) (R, error) {
	res, err := bus.Execute(ctx, query)
	if err != nil {
		var zero R
		return zero, err
	}
	typedRes, ok := res.(R)
	if !ok {
		var zero R
		return zero, fmt.Errorf("unexpected response type: got %T, want %T", res, zero)
	}
	return typedRes, nil
}
