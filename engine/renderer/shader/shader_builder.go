package shader

// ShaderBuilderOption is a functional option used to configure a Shader during construction.
type ShaderBuilderOption func(*shader)

// WithSource sets the WGSL source from a string, typically an embedded file.
//
// Parameters:
//   - source: the WGSL source code
//
// Returns:
//   - ShaderBuilderOption: a function that sets the shader source
func WithSource(source string) ShaderBuilderOption {
	return func(s *shader) {
		s.body = source
		s.sourcePath = ""
	}
}

// WithSourceFromPath reads the WGSL source from a file when the shader is built.
//
// Parameters:
//   - path: the file path to read WGSL source from
//
// Returns:
//   - ShaderBuilderOption: a function that sets the shader source path
func WithSourceFromPath(path string) ShaderBuilderOption {
	return func(s *shader) {
		s.sourcePath = path
	}
}

// WithInclude registers a struct that @oxy:include and @oxy:group directives can refer to.
//
// Parameters:
//   - name: the directive name, e.g. "camera"
//   - typeName: the WGSL type the source declares, e.g. "CameraUniform"
//   - source: the WGSL struct source
//
// Returns:
//   - ShaderBuilderOption: a function that registers the include
func WithInclude(name, typeName, source string) ShaderBuilderOption {
	return func(s *shader) {
		if s.includes == nil {
			s.includes = make(map[string]Include)
		}
		s.includes[name] = Include{Source: source, Type: typeName}
	}
}
