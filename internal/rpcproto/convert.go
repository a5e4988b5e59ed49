// Package rpcproto loads the typedfn gRPC service definition at
// runtime via protoreflect/protoparse and converts between the
// dynamically typed dispatch values ([]any, float64, string, bool,
// nil) and the wire-level Value oneof, without any protoc-generated
// Go stubs.
package rpcproto

import (
	_ "embed"
	"fmt"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
	"github.com/jhump/protoreflect/dynamic"
)

//go:embed typedfn.proto
var protoSource string

// Descriptors holds the parsed message/service descriptors needed to
// build dynamic messages and a grpc.ServiceDesc without protoc output.
type Descriptors struct {
	File           *desc.FileDescriptor
	ValueType      *desc.MessageDescriptor
	ValueListType  *desc.MessageDescriptor
	InvokeReqType  *desc.MessageDescriptor
	InvokeRespType *desc.MessageDescriptor
	ListSigsReq    *desc.MessageDescriptor
	ListSigsResp   *desc.MessageDescriptor
	SigsOfReq      *desc.MessageDescriptor
	SigsOfResp     *desc.MessageDescriptor
	Service        *desc.ServiceDescriptor
}

// Load parses the embedded typedfn.proto source into descriptors,
// using an in-memory accessor so no file on disk is required.
func Load() (*Descriptors, error) {
	parser := protoparse.Parser{
		Accessor: protoparse.FileContentsFromMap(map[string]string{
			"typedfn.proto": protoSource,
		}),
	}
	fds, err := parser.ParseFiles("typedfn.proto")
	if err != nil {
		return nil, fmt.Errorf("parsing typedfn.proto: %w", err)
	}
	fd := fds[0]

	d := &Descriptors{
		File:           fd,
		ValueType:      fd.FindMessage("typedfn.Value"),
		ValueListType:  fd.FindMessage("typedfn.ValueList"),
		InvokeReqType:  fd.FindMessage("typedfn.InvokeRequest"),
		InvokeRespType: fd.FindMessage("typedfn.InvokeResponse"),
		ListSigsReq:    fd.FindMessage("typedfn.ListSignaturesRequest"),
		ListSigsResp:   fd.FindMessage("typedfn.ListSignaturesResponse"),
		SigsOfReq:      fd.FindMessage("typedfn.SignaturesOfRequest"),
		SigsOfResp:     fd.FindMessage("typedfn.SignaturesOfResponse"),
		Service:        fd.FindService("typedfn.TypedFn"),
	}
	for name, mt := range map[string]*desc.MessageDescriptor{
		"Value": d.ValueType, "ValueList": d.ValueListType,
		"InvokeRequest": d.InvokeReqType, "InvokeResponse": d.InvokeRespType,
		"ListSignaturesRequest": d.ListSigsReq, "ListSignaturesResponse": d.ListSigsResp,
		"SignaturesOfRequest": d.SigsOfReq, "SignaturesOfResponse": d.SigsOfResp,
	} {
		if mt == nil {
			return nil, fmt.Errorf("typedfn.proto: message %s not found", name)
		}
	}
	if d.Service == nil {
		return nil, fmt.Errorf("typedfn.proto: service TypedFn not found")
	}
	return d, nil
}

// NewValue builds a dynamic Value message from a Go any, recursing
// into []any for the array_value oneof arm.
func (d *Descriptors) NewValue(v any) (*dynamic.Message, error) {
	msg := dynamic.NewMessage(d.ValueType)
	switch x := v.(type) {
	case nil:
		if err := msg.TrySetFieldByName("null_value", true); err != nil {
			return nil, err
		}
	case float64:
		if err := msg.TrySetFieldByName("number_value", x); err != nil {
			return nil, err
		}
	case int:
		if err := msg.TrySetFieldByName("number_value", float64(x)); err != nil {
			return nil, err
		}
	case string:
		if err := msg.TrySetFieldByName("string_value", x); err != nil {
			return nil, err
		}
	case bool:
		if err := msg.TrySetFieldByName("bool_value", x); err != nil {
			return nil, err
		}
	case []any:
		list := dynamic.NewMessage(d.ValueListType)
		for _, item := range x {
			itemMsg, err := d.NewValue(item)
			if err != nil {
				return nil, err
			}
			if err := list.TryAddRepeatedFieldByName("items", itemMsg); err != nil {
				return nil, err
			}
		}
		if err := msg.TrySetFieldByName("array_value", list); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("rpcproto: unsupported value type %T", v)
	}
	return msg, nil
}

// ValueToAny converts a dynamic Value message back to the Go any it
// represents.
func ValueToAny(msg *dynamic.Message) (any, error) {
	which := msg.WhichOneof("kind")
	switch which {
	case "number_value":
		v, err := msg.TryGetFieldByName("number_value")
		return v, err
	case "string_value":
		v, err := msg.TryGetFieldByName("string_value")
		return v, err
	case "bool_value":
		v, err := msg.TryGetFieldByName("bool_value")
		return v, err
	case "null_value":
		return nil, nil
	case "array_value":
		raw, err := msg.TryGetFieldByName("array_value")
		if err != nil {
			return nil, err
		}
		listMsg, ok := raw.(*dynamic.Message)
		if !ok {
			return nil, fmt.Errorf("rpcproto: array_value is not a message")
		}
		items, err := listMsg.TryGetFieldByName("items")
		if err != nil {
			return nil, err
		}
		rawItems, ok := items.([]interface{})
		if !ok {
			return []any{}, nil
		}
		out := make([]any, 0, len(rawItems))
		for _, it := range rawItems {
			itemMsg, ok := it.(*dynamic.Message)
			if !ok {
				return nil, fmt.Errorf("rpcproto: array item is not a message")
			}
			v, err := ValueToAny(itemMsg)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	default:
		return nil, nil
	}
}
