package client

import (
	"fmt"
	"math/big"
	"reflect"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// CallDescriptor is a fully-encoded, ready-to-submit invocation of one
// contract function. It is either completely bound or never produced:
// Encode fails before any submission attempt on bad input.
type CallDescriptor struct {
	To       common.Address
	Function string
	Args     []interface{} // coerced to the ABI's Go representation
	Data     []byte        // packed calldata
	Value    *big.Int      // nil or zero unless the function is payable
}

// AttachedValue returns the value transfer, never nil.
func (d *CallDescriptor) AttachedValue() *big.Int {
	if d.Value == nil {
		return big.NewInt(0)
	}
	return d.Value
}

// BoundContract couples a parsed interface definition with the fixed
// address it is deployed at. One instance per protocol module, built
// once at client construction and never mutated.
type BoundContract struct {
	Name    string
	Address common.Address
	ABI     abi.ABI
}

// BindContract parses the ABI JSON and binds it to an address.
func BindContract(name, abiJSON string, address common.Address) (*BoundContract, error) {
	parsed, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		return nil, fmt.Errorf("parse %s ABI: %w", name, err)
	}
	return &BoundContract{Name: name, Address: address, ABI: parsed}, nil
}

// Encode binds concrete argument values to a call descriptor.
//
// Arguments are coerced to the declared parameter types in declared
// order (numeric widening to the ABI integer width, string and array
// passthrough). A non-zero value on anything but a payable function
// fails with ErrUnexpectedValue; an unknown function name fails with
// ErrUnknownFunction; a bad argument fails with
// ArgumentTypeMismatchError naming the parameter.
func (b *BoundContract) Encode(function string, args []interface{}, value *big.Int) (*CallDescriptor, error) {
	method, ok := b.ABI.Methods[function]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownFunction, b.Name, function)
	}
	if len(args) != len(method.Inputs) {
		return nil, fmt.Errorf("%s.%s: want %d arguments, got %d",
			b.Name, function, len(method.Inputs), len(args))
	}
	if value != nil && value.Sign() != 0 && method.StateMutability != "payable" {
		return nil, fmt.Errorf("%w: %s.%s is %s",
			ErrUnexpectedValue, b.Name, function, method.StateMutability)
	}

	coerced := make([]interface{}, len(args))
	for i, arg := range args {
		input := method.Inputs[i]
		v, err := coerceArgument(input.Type, arg)
		if err != nil {
			return nil, &ArgumentTypeMismatchError{
				Function: b.Name + "." + function,
				Param:    input.Name,
				Index:    i,
				Got:      arg,
				Want:     input.Type.String(),
			}
		}
		coerced[i] = v
	}

	data, err := b.ABI.Pack(function, coerced...)
	if err != nil {
		return nil, fmt.Errorf("pack %s.%s: %w", b.Name, function, err)
	}

	return &CallDescriptor{
		To:       b.Address,
		Function: function,
		Args:     coerced,
		Data:     data,
		Value:    value,
	}, nil
}

// Decode unpacks a raw read result into the function's declared output
// shape. Single outputs (including tuples) are assigned directly into
// out; malformed results surface as *DecodeError.
func (b *BoundContract) Decode(function string, raw []byte, out interface{}) error {
	values, err := b.ABI.Unpack(function, raw)
	if err != nil {
		return &DecodeError{Function: b.Name + "." + function, Cause: err}
	}
	switch len(values) {
	case 0:
		return nil
	case 1:
		if err := assignOutput(out, values[0]); err != nil {
			return &DecodeError{Function: b.Name + "." + function, Cause: err}
		}
		return nil
	default:
		if err := b.ABI.UnpackIntoInterface(out, function, raw); err != nil {
			return &DecodeError{Function: b.Name + "." + function, Cause: err}
		}
		return nil
	}
}

// assignOutput sets a single unpacked value into the pointer out.
// Tuple outputs arrive as anonymous structs whose fields mirror the
// ABI components, so a struct conversion lands them in the caller's
// named type.
func assignOutput(out interface{}, value interface{}) error {
	dst := reflect.ValueOf(out)
	if dst.Kind() != reflect.Ptr || dst.IsNil() {
		return fmt.Errorf("output must be a non-nil pointer, got %T", out)
	}
	elem := dst.Elem()
	src := reflect.ValueOf(value)
	switch {
	case src.Type().AssignableTo(elem.Type()):
		elem.Set(src)
	case src.Type().ConvertibleTo(elem.Type()):
		elem.Set(src.Convert(elem.Type()))
	default:
		return fmt.Errorf("cannot assign %s to %s", src.Type(), elem.Type())
	}
	return nil
}

// coerceArgument converts a caller-supplied value to the Go type the
// ABI packer expects for t. It widens integers, passes strings and
// booleans through, parses hex strings into addresses, and recurses
// into slices preserving element order.
func coerceArgument(t abi.Type, v interface{}) (interface{}, error) {
	switch t.T {
	case abi.UintTy, abi.IntTy:
		return coerceInteger(t, v)

	case abi.StringTy:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("want string, got %T", v)
		}
		return s, nil

	case abi.BoolTy:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("want bool, got %T", v)
		}
		return b, nil

	case abi.AddressTy:
		switch a := v.(type) {
		case common.Address:
			return a, nil
		case string:
			if !common.IsHexAddress(a) {
				return nil, fmt.Errorf("invalid address %q", a)
			}
			return common.HexToAddress(a), nil
		default:
			return nil, fmt.Errorf("want address, got %T", v)
		}

	case abi.SliceTy, abi.ArrayTy:
		rv := reflect.ValueOf(v)
		if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
			return nil, fmt.Errorf("want %s, got %T", t.String(), v)
		}
		out := reflect.MakeSlice(t.GetType(), rv.Len(), rv.Len())
		for i := 0; i < rv.Len(); i++ {
			elem, err := coerceArgument(*t.Elem, rv.Index(i).Interface())
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out.Index(i).Set(reflect.ValueOf(elem))
		}
		return out.Interface(), nil

	default:
		// bytes and other types pass through unchanged; abi.Pack
		// rejects anything it cannot represent.
		return v, nil
	}
}

// coerceInteger widens any native integer (or decimal string, or
// *big.Int) to the declared ABI integer width.
func coerceInteger(t abi.Type, v interface{}) (interface{}, error) {
	// Widths above 64 bits are represented as *big.Int.
	if t.Size > 64 {
		switch n := v.(type) {
		case *big.Int:
			if n == nil {
				return nil, fmt.Errorf("nil *big.Int")
			}
			if t.T == abi.UintTy && n.Sign() < 0 {
				return nil, fmt.Errorf("negative value %s for unsigned type", n)
			}
			return n, nil
		case string:
			parsed, ok := new(big.Int).SetString(n, 10)
			if !ok {
				return nil, fmt.Errorf("%q is not an integer", n)
			}
			if t.T == abi.UintTy && parsed.Sign() < 0 {
				return nil, fmt.Errorf("negative value %q for unsigned type", n)
			}
			return parsed, nil
		}
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			i := rv.Int()
			if t.T == abi.UintTy && i < 0 {
				return nil, fmt.Errorf("negative value %d for unsigned type", i)
			}
			return big.NewInt(i), nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return new(big.Int).SetUint64(rv.Uint()), nil
		}
		return nil, fmt.Errorf("want integer, got %T", v)
	}

	// Small widths must be the exact Go type the packer expects.
	rv := reflect.ValueOf(v)
	var u uint64
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i := rv.Int()
		if i < 0 {
			if t.T == abi.UintTy {
				return nil, fmt.Errorf("negative value %d for unsigned type", i)
			}
			if t.Size < 64 && i < -(int64(1)<<uint(t.Size-1)) {
				return nil, fmt.Errorf("value %d overflows %s", i, t.String())
			}
			return reflect.ValueOf(i).Convert(t.GetType()).Interface(), nil
		}
		u = uint64(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u = rv.Uint()
	default:
		return nil, fmt.Errorf("want integer, got %T", v)
	}
	// Signed widths keep one bit for the sign.
	if t.T == abi.IntTy {
		if u > uint64(1)<<uint(t.Size-1)-1 {
			return nil, fmt.Errorf("value %d overflows %s", u, t.String())
		}
	} else if t.Size < 64 && u >= uint64(1)<<uint(t.Size) {
		return nil, fmt.Errorf("value %d overflows %s", u, t.String())
	}
	return reflect.ValueOf(u).Convert(t.GetType()).Interface(), nil
}
