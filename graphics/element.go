package graphics

// Element represents an element that makes up a vertex layout
// (e.g. Vec3 at an offset of 12 bytes). Offsets are filled in by the
// backend when the layout is applied to a buffer.
type Element struct {
	Offset int
	ElementType
}

// ElementType is the type of an element that makes up a vertex layout (e.g. Vec3)
type ElementType uint8

const (
	DataTypeUnknown ElementType = iota

	DataTypeUint32
	DataTypeInt32
	DataTypeFloat32

	DataTypeVec2
	DataTypeVec3
	DataTypeVec4

	DataTypeMat2
	DataTypeMat3
	DataTypeMat4
)

// CompCount returns the number of components in the element (e.g. for Vec2 its 2)
func (dt ElementType) CompCount() int32 {

	switch dt {
	case DataTypeUint32:
		fallthrough
	case DataTypeFloat32:
		fallthrough
	case DataTypeInt32:
		return 1

	case DataTypeVec2:
		return 2
	case DataTypeVec3:
		return 3
	case DataTypeVec4:
		return 4

	case DataTypeMat2:
		return 2 * 2
	case DataTypeMat3:
		return 3 * 3
	case DataTypeMat4:
		return 4 * 4

	default:
		return 0
	}
}

// Size returns the total size in bytes (e.g. for Vec3 its 3*4=12 bytes)
func (dt ElementType) Size() int32 {
	return dt.CompCount() * 4
}

func (dt ElementType) String() string {

	switch dt {

	case DataTypeUint32:
		return "uint32"
	case DataTypeFloat32:
		return "float32"
	case DataTypeInt32:
		return "int32"

	case DataTypeVec2:
		return "Vec2"
	case DataTypeVec3:
		return "Vec3"
	case DataTypeVec4:
		return "Vec4"

	case DataTypeMat2:
		return "Mat2"
	case DataTypeMat3:
		return "Mat3"
	case DataTypeMat4:
		return "Mat4"

	default:
		return "Unknown"
	}
}

// LayoutStride fills in the Offset of every element and returns the total
// stride of one interleaved vertex in bytes.
func LayoutStride(layout []Element) int32 {

	var stride int32
	for i := 0; i < len(layout); i++ {
		layout[i].Offset = int(stride)
		stride += layout[i].Size()
	}

	return stride
}
