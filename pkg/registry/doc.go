// Package registry 提供类型注册表和工厂
//
// 这个包实现了一个类型安全的泛型注册表，支持：
// - 以名称注册可构造类型，并附带描述、标签和元数据
// - 按名称、标签、类型关系和关键字查找
// - 按名称和参数创建实例，构造失败不会向调用方传播 panic
// - 线程安全的并发访问
//
// 基本用法：
//
//  1. 定义产出类型和构造函数：
//     type Converter interface{ Convert(data string) string }
//
//     type CSVConverter struct{ Delimiter string `arg:"delimiter"` }
//
//     func NewCSVConverter(args registry.Args) (*CSVConverter, error) {
//     c := &CSVConverter{Delimiter: ","}
//     return c, args.Bind(c)
//     }
//
//  2. 创建注册表：
//     reg := registry.NewRegistry[Converter]("converters")
//
//  3. 注册类型：
//     ok := reg.Register("csv", registry.Describe[Converter](NewCSVConverter),
//     registry.WithDescription("CSV format converter"),
//     registry.WithTags("format", "csv"))
//
//  4. 在定义处注册（包装函数原样返回描述符）：
//     var jsonType = reg.RegisterWith("json", registry.WithTags("format"))(
//     registry.Describe[Converter](NewJSONConverter).WithDoc("JSON format converter"))
//
//  5. 创建实例：
//     if c, ok := reg.Create("csv", registry.Args{"delimiter": ";"}); ok {
//     fmt.Println(c.Convert("hello")) // CSV;hello
//     }
//
//  6. 查找：
//     reg.ListByTag("format")
//     registry.ListByTypeOf[Tabular, Converter](reg)
//     reg.Search("csv", []string{registry.FieldName, registry.FieldTags})
//
//  7. 注销和清空：
//     reg.Unregister("csv")
//     reg.Clear()
package registry
