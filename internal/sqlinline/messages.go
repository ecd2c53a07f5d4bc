package sqlinline

const QInsertChatTurn = `--sql f3b044d7-172c-4aee-9363-978084cc5c3e
insert into chat_messages (id, user_id, role, content)
values ($1::uuid, $3::text, 'user', $4::text),
       ($2::uuid, $3::text, 'assistant', $5::text);
`
