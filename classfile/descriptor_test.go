package classfile

import "testing"

func TestParseFieldDescriptor(t *testing.T) {
	tests := []struct {
		desc string
		want string
	}{
		{"I", "int"},
		{"Z", "boolean"},
		{"Ljava/lang/String;", "java.lang.String"},
		{"[I", "int[]"},
		{"[[Ljava/util/Map$Entry;", "java.util.Map$Entry[][]"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			ft := ParseFieldDescriptor(tt.desc)
			if ft == nil {
				t.Fatalf("ParseFieldDescriptor(%q) returned nil", tt.desc)
			}
			if got := ft.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseFieldDescriptorRejectsGarbage(t *testing.T) {
	for _, desc := range []string{"", "Q", "L;", "Ljava/lang/String", "II", "[V"} {
		if ft := ParseFieldDescriptor(desc); ft != nil {
			t.Errorf("ParseFieldDescriptor(%q) = %v, want nil", desc, ft)
		}
	}
}

func TestParseMethodDescriptor(t *testing.T) {
	md := ParseMethodDescriptor("(I[Ljava/lang/String;J)Ljava/util/List;")
	if md == nil {
		t.Fatal("expected descriptor")
	}
	params := md.ParameterTypeNames()
	want := []string{"int", "java.lang.String[]", "long"}
	if len(params) != len(want) {
		t.Fatalf("got %d parameters, want %d", len(params), len(want))
	}
	for i := range want {
		if params[i] != want[i] {
			t.Errorf("parameter %d: got %q, want %q", i, params[i], want[i])
		}
	}
	if md.ReturnTypeName() != "java.util.List" {
		t.Errorf("return type: got %q", md.ReturnTypeName())
	}

	void := ParseMethodDescriptor("()V")
	if void == nil || void.ReturnType != nil || void.ReturnTypeName() != "void" {
		t.Errorf("()V should be a void method, got %+v", void)
	}

	for _, bad := range []string{"", "I", "(I", "(I)", "(I)VV", "(Q)V"} {
		if md := ParseMethodDescriptor(bad); md != nil {
			t.Errorf("ParseMethodDescriptor(%q) should fail", bad)
		}
	}
}

func TestClassConstantTypeName(t *testing.T) {
	tests := map[string]string{
		"java/lang/Object":    "java.lang.Object",
		"com/example/A$B":     "com.example.A$B",
		"[Ljava/lang/Object;": "java.lang.Object[]",
		"[[I":                 "int[][]",
	}
	for in, want := range tests {
		if got := ClassConstantTypeName(in); got != want {
			t.Errorf("ClassConstantTypeName(%q) = %q, want %q", in, got, want)
		}
	}
}
