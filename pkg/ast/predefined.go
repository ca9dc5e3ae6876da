package ast

// predefinedVars lists the built-in variables every shader can use,
// in the order they are declared.
var predefinedVars = []struct {
	name      string
	qualifier Qualifier
	typ       Type
}{
	{"gl_FragColor", Result, Vec4},
	{"gl_FragDepth", Result, Bool},
	{"gl_FragCoord", Attribute, Vec4},
	{"gl_TexCoord", Attribute, Vec4},
	{"gl_Color", Attribute, Vec4},
	{"gl_Secondary", Attribute, Vec4},
	{"gl_FogFragCoord", Attribute, Vec4},
	{"gl_Light_Half", Uniform, Vec4},
	{"gl_Light_Ambient", Uniform, Vec4},
	{"gl_Material_Shininess", Uniform, Vec4},
	{"env1", Uniform, Vec4},
	{"env2", Uniform, Vec4},
	{"env3", Uniform, Vec4},
}

// Predefined returns fresh declarations for the built-in variables.
// Each call returns new nodes, so programs never share declarations.
func Predefined() []*Declaration {
	decls := make([]*Declaration, len(predefinedVars))
	for i, v := range predefinedVars {
		decls[i] = &Declaration{Name: v.name, Type: v.typ, Qualifier: v.qualifier}
	}
	return decls
}

// IsPredefinedName reports whether name is one of the built-in variables
func IsPredefinedName(name string) bool {
	for _, v := range predefinedVars {
		if v.name == name {
			return true
		}
	}
	return false
}
